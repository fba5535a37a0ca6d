package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/giftwheels/app/store"
	"github.com/shashiranjanraj/giftwheels/config"
	_ "github.com/shashiranjanraj/giftwheels/database/migrations"
	"github.com/shashiranjanraj/giftwheels/database/seeders"
	"github.com/shashiranjanraj/giftwheels/pkg/database"
	"github.com/shashiranjanraj/giftwheels/pkg/migration"
)

// bootDB loads config and opens the database without migrating it.
func bootDB() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return database.Connect(config.DatabaseDriver(), config.DatabaseDSN())
}

// bootStore loads config and opens the migrated, seeded store.
func bootStore(ctx context.Context) (*store.Store, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return store.Open(ctx, store.Options{
		Driver:            config.DatabaseDriver(),
		DSN:               config.DatabaseDSN(),
		LowStockThreshold: config.LowStockThreshold(),
	})
}

// giftwheels migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		ran, err := migration.New(db).Run(cmd.Context())
		for _, name := range ran {
			fmt.Fprintln(cmd.OutOrStdout(), "Migrated:", name)
		}
		if err != nil {
			return err
		}
		if len(ran) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to migrate.")
		}
		return nil
	},
}

// giftwheels migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		reverted, err := migration.New(db).Rollback(cmd.Context())
		for _, name := range reverted {
			fmt.Fprintln(cmd.OutOrStdout(), "Rolled back:", name)
		}
		if err != nil {
			return err
		}
		if len(reverted) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to roll back.")
		}
		return nil
	},
}

// giftwheels migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		runner := migration.New(db)
		statuses, err := runner.Status(cmd.Context())
		if err != nil {
			return err
		}
		version, err := runner.Version(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "MIGRATION\tRAN\tBATCH")
		for _, s := range statuses {
			ran, batch := "no", "-"
			if s.Ran {
				ran, batch = "yes", fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, ran, batch)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Schema version:", version)
		return nil
	},
}

// giftwheels seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders (the catalog seeder only fills an empty catalog)",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := seeders.RunAll(cmd.Context(), db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Seeders done.")
		return nil
	},
}
