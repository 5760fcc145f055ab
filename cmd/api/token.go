package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/KpG782/qr-registration/internal/auth"
	"github.com/KpG782/qr-registration/internal/config"
	"github.com/spf13/cobra"
)

func newTokenCmd(logger *log.Logger) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an organizer bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv(logger)
			if err != nil {
				return err
			}
			if cfg.OrganizerJWTSecret == "" {
				return errors.New("ORGANIZER_JWT_SECRET is not set; organizer routes are open")
			}
			token, err := auth.NewIssuer(cfg.OrganizerJWTSecret).Issue(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "organizer name recorded in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
