package main

import (
	"context"
	"log"
	"os"

	"github.com/KpG782/qr-registration/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	logger := log.Default()
	if err := newRootCmd(logger).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// newRootCmd serves the API when no subcommand is given.
func newRootCmd(logger *log.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:          "qr-registration",
		Short:        "Event registration and QR check-in service",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnvFile(logger)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), logger)
		},
	}
	root.AddCommand(
		newServeCmd(logger),
		newMigrateCmd(logger),
		newImportCmd(logger),
		newTokenCmd(logger),
	)
	return root
}
