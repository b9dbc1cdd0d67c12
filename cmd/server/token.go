package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phrazzld/tasktrack/internal/service/auth"
)

func newTokenCmd() *cobra.Command {
	var ownerID int64

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for an owner",
		Long:  "Token signs a JWT for the given owner with the configured secret. The server must run with the same secret.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ownerID <= 0 {
				return fmt.Errorf("--owner must be a positive integer")
			}

			cfg, err := loadAppConfig()
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return fmt.Errorf("TASKTRACK_AUTH_JWT_SECRET is not set")
			}

			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return err
			}
			token, err := jwtService.GenerateToken(cmd.Context(), ownerID)
			if err != nil {
				return fmt.Errorf("failed to generate token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().Int64Var(&ownerID, "owner", 0, "owner id to embed in the token")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
