package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dcode-github/rental_booking_system/config"
)

func NewInitDBCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create tables and indexes",
		Long: `Create the SQLite schema or the MongoDB indexes for the configured
store. Running it again is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s store initialized\n", cfg.StoreDriver)
			return nil
		},
	}
}
