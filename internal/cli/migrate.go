package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"claimdesk/internal/storage"
	"claimdesk/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <command>",
	Short: "Manage the database schema",
	Long: `Commands:
  up          Migrate to the latest version
  up-one      Migrate one version up
  down        Roll back one version
  status      Show migration status
  version     Show current version
  reset       Roll back all migrations`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: migrations.Commands,
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	return migrate(cfg.StoreDSN(), args[0])
}

func migrate(dsn, command string) error {
	if dsn == "" {
		return errors.New("DATABASE_URL is required")
	}
	drv := storage.DriverFor(dsn)

	db, err := sql.Open(drv.Name, drv.Source)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := migrations.Exec(db, drv.Dialect, strings.ToLower(command)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
