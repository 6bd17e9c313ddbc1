package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Create the leads, business_users, projects, project_labels and prospects tables if missing.

The schema is idempotent; the server applies it on startup as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		store, closeStore, err := e.openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
		return nil
	},
}
