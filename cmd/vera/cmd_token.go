package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vera/internal/auth"
	"vera/internal/platform/config"
)

// tokenCmd mints a bearer token for a server sharing JWT_SECRET.
func tokenCmd() *cobra.Command {
	var secret, subject, name string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				secret = config.Load().JWTSecret
			}
			if secret == "" {
				return errors.New("no secret: pass --secret or set JWT_SECRET")
			}
			token, err := auth.GenerateToken(secret, subject, name, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to JWT_SECRET)")
	cmd.Flags().StringVar(&subject, "subject", "operador", "token subject")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
