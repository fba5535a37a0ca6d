package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "giftwheels",
	Short:         "GiftWheels store: catalog, orders and inventory",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routesCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Store
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(messagesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(stockSetCmd)
	rootCmd.AddCommand(raceCmd)

	// Admin
	rootCmd.AddCommand(hashPasswordCmd)
}
