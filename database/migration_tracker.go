package database

import (
	"database/sql"
	"fmt"
	"time"
)

const migrationsTableName = "schema_migrations"

// migration именованный шаг схемы, применяется один раз
type migration struct {
	name  string
	query string
}

var lookupMigrations = []migration{
	{
		name: "001_create_address_lookups",
		query: `
		CREATE TABLE IF NOT EXISTS address_lookups (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			query TEXT NOT NULL,
			outcome TEXT NOT NULL,
			addresses TEXT NOT NULL DEFAULT '[]',
			place_id TEXT,
			candidate_count INTEGER NOT NULL DEFAULT 0,
			error_message TEXT,
			created_at TIMESTAMP NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_address_lookups_created_at ON address_lookups(created_at);
		CREATE INDEX IF NOT EXISTS idx_address_lookups_outcome ON address_lookups(outcome);
		`,
	},
	{
		name: "002_add_address_lookups_duration",
		query: `ALTER TABLE address_lookups ADD COLUMN duration_ms INTEGER NOT NULL DEFAULT 0`,
	},
}

// applyMigrations применяет все еще не примененные миграции по порядку
func applyMigrations(db *sql.DB) error {
	for _, m := range lookupMigrations {
		applied, err := isMigrationApplied(db, m.name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		if _, err := db.Exec(m.query); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.name, err)
		}
		if err := markMigrationApplied(db, m.name); err != nil {
			return err
		}
	}
	return nil
}

// ensureMigrationTable создает таблицу schema_migrations при необходимости.
func ensureMigrationTable(db *sql.DB) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`, migrationsTableName)

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}
	return nil
}

// isMigrationApplied проверяет, была ли уже применена миграция.
func isMigrationApplied(db *sql.DB, name string) (bool, error) {
	if err := ensureMigrationTable(db); err != nil {
		return false, err
	}

	var appliedAt sql.NullTime
	query := fmt.Sprintf(`SELECT applied_at FROM %s WHERE name = ?`, migrationsTableName)
	err := db.QueryRow(query, name).Scan(&appliedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check migration %s: %w", name, err)
	}

	return appliedAt.Valid, nil
}

// markMigrationApplied сохраняет информацию о примененной миграции.
func markMigrationApplied(db *sql.DB, name string) error {
	query := fmt.Sprintf(`INSERT OR REPLACE INTO %s(name, applied_at) VALUES(?, ?)`, migrationsTableName)
	if _, err := db.Exec(query, name, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark migration %s as applied: %w", name, err)
	}
	return nil
}
