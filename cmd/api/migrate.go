package main

import (
	"context"
	"fmt"
	"log"

	"github.com/KpG782/qr-registration/internal/config"
	"github.com/KpG782/qr-registration/internal/storage"
	"github.com/KpG782/qr-registration/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func newMigrateCmd(logger *log.Logger) *cobra.Command {
	var statusOnly bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long: "Applies embedded Postgres migrations in filename order. " +
			"The SQLite backend applies its schema on open, so migrate only opens it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv(logger)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), startupTimeout)
			defer cancel()

			if cfg.Storage.Backend != config.BackendPostgres {
				store, err := storage.Open(ctx, cfg.Storage, logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sqlite schema up to date at %s\n", cfg.Storage.SQLitePath)
				return store.Close()
			}

			pool, err := pgxpool.New(ctx, cfg.Storage.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to db: %w", err)
			}
			defer pool.Close()
			if err := pool.Ping(ctx); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}

			if statusOnly {
				statuses, err := migrations.Check(ctx, pool)
				if err != nil {
					return err
				}
				for _, s := range statuses {
					fmt.Fprintf(cmd.OutOrStdout(), "%s applied=%t\n", s.Name, s.Applied)
				}
				return nil
			}

			ran, err := migrations.Run(ctx, pool)
			if err != nil {
				return err
			}
			if len(ran) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no pending migrations")
				return nil
			}
			for _, name := range ran {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false, "list migrations without applying them")
	return cmd
}
