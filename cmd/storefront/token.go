package main

import (
	"fmt"

	"storefront/internal/auth"
	"storefront/internal/config"

	"github.com/spf13/cobra"
)

var (
	tokenUser string
	tokenRole string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for local use",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		token, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).Issue(tokenUser, tokenRole)
		if err != nil {
			return fmt.Errorf("failed to issue token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id to put in the token subject")
	tokenCmd.Flags().StringVar(&tokenRole, "role", auth.RoleCustomer, "role: customer or admin")
	tokenCmd.MarkFlagRequired("user")
}
