package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dwikikusuma/storefront/internal/auth"
	"github.com/dwikikusuma/storefront/pkg/config"
)

func newTokenCmd() *cobra.Command {
	var (
		id     auth.Identity
		ttl    time.Duration
		secret string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a session token for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = config.Load().JWTSecret
			}
			tok, err := auth.NewTokens(secret).Sign(id, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}

	cmd.Flags().StringVar(&id.UserID, "user", "", "user id (required)")
	cmd.Flags().StringVar(&id.Role, "role", "user", "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to JWT_SECRET)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
