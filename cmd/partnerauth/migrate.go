// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/ceremo/partnerauth/internal/store"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
		Long:  `Apply, roll back, or inspect schema migrations on the PostgreSQL database.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE:  runMigrateUp,
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations (drops all data)",
			RunE:  runMigrateDown,
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show current migration version and pending migrations",
			RunE:  runMigrateStatus,
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set migration version without running migrations (dirty state recovery)",
			Args:  cobra.ExactArgs(1),
			RunE:  runMigrateForce,
		},
	)

	return cmd
}

// getDatabaseURL returns the PostgreSQL connection URL from the environment.
func getDatabaseURL() (string, error) {
	url := os.Getenv("PARTNERAUTH_DATABASE_URL")
	if url == "" {
		return "", oops.Code("CONFIG_INVALID").
			Errorf("PARTNERAUTH_DATABASE_URL environment variable is required")
	}
	return url, nil
}

// parseForceVersion parses the version argument for the force subcommand.
func parseForceVersion(s string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(s, "%d", &version); err != nil {
		return 0, oops.Code("INVALID_VERSION").
			With("input", s).
			Errorf("version must be an integer, got %q", s)
	}
	return version, nil
}

// newMigrator builds a Migrator from the environment database URL.
func newMigrator() (*store.Migrator, error) {
	url, err := getDatabaseURL()
	if err != nil {
		return nil, err
	}
	return store.NewMigrator(url)
}

func closeMigrator(m *store.Migrator) {
	if err := m.Close(); err != nil {
		slog.Warn("error closing migrator", "error", err)
	}
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	cmd.Println("Running migrations...")
	if err := m.Up(); err != nil {
		return err
	}

	cmd.Println("Migrations completed successfully")
	return nil
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	cmd.Println("Rolling back all migrations...")
	if err := m.Down(); err != nil {
		return err
	}

	cmd.Println("Rollback completed successfully")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}

	if version == 0 {
		cmd.Println("Current version: none (no migrations applied)")
	} else {
		name, err := store.MigrationName(version)
		if err != nil {
			return err
		}
		if name == "" {
			name = "unknown"
		}
		cmd.Printf("Current version: %d (%s)\n", version, name)
	}
	if dirty {
		cmd.Println("WARNING: database is in a dirty state; fix manually and use 'migrate force'")
	}

	applied, err := m.AppliedMigrations()
	if err != nil {
		return err
	}
	pending, err := m.PendingMigrations()
	if err != nil {
		return err
	}

	cmd.Printf("Applied: %d, Pending: %d\n", len(applied), len(pending))
	for _, v := range pending {
		name, err := store.MigrationName(v)
		if err != nil {
			return err
		}
		cmd.Printf("  pending: %d (%s)\n", v, name)
	}
	return nil
}

func runMigrateForce(cmd *cobra.Command, args []string) error {
	version, err := parseForceVersion(args[0])
	if err != nil {
		return err
	}

	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Force(version); err != nil {
		return err
	}

	cmd.Printf("Forced migration version to %d\n", version)
	return nil
}
