package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognisphere-server/internal/auth"
	"github.com/cognisphere-server/internal/config"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a development bearer token with the configured JWT secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := config.NewManager()
			if err != nil {
				return err
			}
			authCfg := manager.GetConfig().Auth
			if authCfg.JWTSecret == "" {
				return fmt.Errorf("auth.jwt_secret is not configured")
			}

			patient, _ := cmd.Flags().GetString("patient")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			token, err := auth.NewVerifier(authCfg).Issue(patient, ttl)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("patient", "", "Patient id placed in the token subject")
	cmd.Flags().Duration("ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("patient")
	return cmd
}
