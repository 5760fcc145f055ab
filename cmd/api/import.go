package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/KpG782/qr-registration/internal/app"
	"github.com/KpG782/qr-registration/internal/clock"
	"github.com/KpG782/qr-registration/internal/config"
	"github.com/KpG782/qr-registration/internal/roster"
	"github.com/KpG782/qr-registration/internal/storage"
	"github.com/spf13/cobra"
)

func newImportCmd(logger *log.Logger) *cobra.Command {
	var categoryID string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a CSV or XLSX roster into a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read roster: %w", err)
			}
			parsed, err := roster.Parse(args[0], data)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printLines(out, parsed.Errors)
			if parsed.Empty() {
				return fmt.Errorf("no valid participants found in %s", args[0])
			}

			cfg, err := config.FromEnv(logger)
			if err != nil {
				return err
			}
			store, err := storage.Open(cmd.Context(), cfg.Storage, logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			records := make([]app.BulkRecord, 0, len(parsed.Records))
			for _, rec := range parsed.Records {
				records = append(records, app.BulkRecord{
					Email:             rec.Email,
					FullName:          rec.FullName,
					SchoolInstitution: rec.SchoolInstitution,
				})
			}
			result, err := app.NewParticipantService(store, clock.NewSystem()).BulkCreate(cmd.Context(), app.BulkCreateInput{
				CategoryID: categoryID,
				Records:    records,
			})
			if err != nil {
				return err
			}
			printLines(out, result.Errors)
			fmt.Fprintf(out, "parsed=%d skipped=%d success=%d failed=%d\n",
				len(parsed.Records), len(parsed.Errors), result.Success, result.Failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&categoryID, "category", "", "category id to import into")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func printLines(w io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}
