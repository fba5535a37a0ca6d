package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/giftwheels/app/routes"
	"github.com/shashiranjanraj/giftwheels/app/services"
	"github.com/shashiranjanraj/giftwheels/app/store"
	"github.com/shashiranjanraj/giftwheels/config"
	"github.com/shashiranjanraj/giftwheels/internal/kernel"
	"github.com/shashiranjanraj/giftwheels/internal/server"
	"github.com/shashiranjanraj/giftwheels/pkg/broadcast"
	"github.com/shashiranjanraj/giftwheels/pkg/event"
	"github.com/shashiranjanraj/giftwheels/pkg/logger"
)

// giftwheels serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := config.Load(); err != nil {
			return err
		}
		if err := config.CheckAdminAuth(); err != nil {
			return err
		}

		s, err := bootStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		startRelay(ctx, s.Bus)

		if config.AdminPasswordHash() == "" {
			logger.Warn("ADMIN_PASSWORD_HASH is empty; admin login is disabled")
		}
		secret := []byte(config.JWTSecret())
		k, err := kernel.NewHTTPKernel(routes.Deps{
			Store:        s,
			Auth:         services.NewAuthService(config.AdminUsername(), config.AdminPasswordHash(), secret),
			JWTSecret:    secret,
			LowThreshold: config.LowStockThreshold(),
		})
		if err != nil {
			return err
		}

		return server.Start(ctx, ":"+config.AppPort(), k.Handler())
	},
}

// startRelay shares stock events with other processes when Redis is
// configured. The server keeps running without it.
func startRelay(ctx context.Context, bus *event.Bus) {
	addr := config.RedisAddr()
	if addr == "" {
		return
	}

	client, err := broadcast.Connect(ctx, addr, config.RedisPassword())
	if err != nil {
		logger.Warn("stock relay disabled", "error", err)
		return
	}
	go func() {
		<-ctx.Done()
		_ = client.Close()
	}()

	if err := broadcast.New(client, bus, broadcast.DefaultChannel).Start(ctx); err != nil {
		logger.Warn("stock relay disabled", "error", err)
	}
}

// giftwheels routes
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := kernel.NewHTTPKernel(routes.Deps{Store: &store.Store{}})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range k.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
