package main

import (
	"database/sql"
	"fmt"

	"github.com/GianImpedovo/is-inventoryapp/internal/config"
	reposql "github.com/GianImpedovo/is-inventoryapp/internal/repository/sql"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Apply or roll back the database schema",
		Long: `Apply or roll back the embedded schema migrations.

The database is taken from DATABASE_URL (and PGSSL), read the same way as the service does.`,
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd, reposql.RunMigrations, "Schema is up to date")
		},
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd, reposql.RollbackMigrations, "Schema rolled back")
		},
	})
	return migrateCmd
}

func withDatabase(cmd *cobra.Command, run func(*sql.DB) error, done string) error {
	conf, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	db, err := reposql.OpenDB(cmd.Context(), conf.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := run(db); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), done)
	return nil
}
