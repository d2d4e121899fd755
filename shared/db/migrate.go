package db

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Migration is a single versioned schema change.
// The up statement must be safe to run against a database that has not yet
// recorded the version.
type Migration struct {
	Version int
	Name    string
	Up      string
}

const createSchemaMigrationsQuery = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
`

// RunMigrations applies every migration newer than the recorded schema
// version, each in its own transaction.
func RunMigrations(sqlDB *sql.DB, dialect Dialect, migrations []Migration) error {
	if _, err := sqlDB.Exec(createSchemaMigrationsQuery); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	currentVersion := 0
	err := sqlDB.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	record := Rebind(dialect, "INSERT INTO schema_migrations (version, name) VALUES (?, ?)")

	for _, m := range migrations {
		if m.Version <= currentVersion {
			continue
		}

		tx, err := sqlDB.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d (%s): %w", m.Version, m.Name, err)
		}

		if _, err := tx.Exec(record, m.Version, m.Name); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		log.Info().Int("version", m.Version).Str("name", m.Name).Str("dialect", string(dialect)).Msg("Applied migration")
	}

	return nil
}
