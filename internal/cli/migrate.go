package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NomadCrew/contact-intake/config"
	"github.com/NomadCrew/contact-intake/db"
)

// Swapped out in tests.
var (
	runMigrations      = db.RunMigrations
	rollbackMigrations = db.RollbackMigrations
)

// MigrateCmd returns the migrate command for the postgres schema.
func MigrateCmd() *cobra.Command {
	var rollback int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back postgres schema migrations",
		Long: `Apply every pending migration to the configured postgres database.

Examples:
  contactctl migrate                # Apply pending migrations
  contactctl migrate --rollback 1   # Undo the latest migration`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Server.StoreDriver != config.StoreDriverPostgres {
				return fmt.Errorf("migrations only apply to the postgres store, configured driver is %q", cfg.Server.StoreDriver)
			}

			out := cmd.OutOrStdout()
			if rollback > 0 {
				if err := rollbackMigrations(cfg.Database.URL(), rollback); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s Rolled back %d migration(s)\n", success("✓"), rollback)
				return nil
			}

			if err := runMigrations(cfg.Database.URL()); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s Schema is up to date\n", success("✓"))
			return nil
		},
	}

	cmd.Flags().IntVar(&rollback, "rollback", 0, "Number of migrations to roll back")
	return cmd
}
