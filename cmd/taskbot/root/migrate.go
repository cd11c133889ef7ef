package root

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			// Open applies the schema.
			_, cleanup, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			log.Info("schema is up to date")
			return nil
		},
	}
}
