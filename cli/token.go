package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcode-github/rental_booking_system/config"
	"github.com/dcode-github/rental_booking_system/utils"
)

type TokenOptions struct {
	*RootOptions
	TTL time.Duration
}

// NewTokenCommand signs a bearer token for local development, standing in
// for the external identity provider.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token <account-id>",
		Short: "Sign a development bearer token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.RequireJWTKey(); err != nil {
				return err
			}
			token, err := utils.GenerateJWT(cfg.JWTKey, args[0], opts.TTL)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&opts.TTL, "ttl", 15*time.Minute, "token lifetime")

	return cmd
}
