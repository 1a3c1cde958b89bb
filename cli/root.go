package cli

import (
	"github.com/spf13/cobra"

	"github.com/dcode-github/rental_booking_system/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
}

// NewRootCommand creates the root command of the rentals service.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rentals",
		Short: "Short-term rental booking service",
		Long: `Backend for listing accommodations and booking stays.

Owners publish properties and manage bookings from the dashboard API; guests
browse the catalog, get quotes and submit booking requests.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv(opts.EnvFile)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "file with environment variables to load")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewInitDBCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}
