package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/okian/jelajah/pkg/logger"
)

// expectedSchemaVersion is the latest schema version the store runs against.
const expectedSchemaVersion = 3

type migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []migration{ //nolint:gochecknoglobals // ordered schema history
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS profiles (
					user_id TEXT PRIMARY KEY,
					interest TEXT NOT NULL DEFAULT '',
					address TEXT NOT NULL DEFAULT '',
					updated_at TEXT NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS visits (
					visit_id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					destination_id TEXT NOT NULL,
					visited_at TEXT NOT NULL
				)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Index visits by user",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_visits_user ON visits(user_id, destination_id)`)
			return err
		},
	},
	{
		Version:     3,
		Description: "Scope visit ids to their user",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE visits_v3 (
					user_id TEXT NOT NULL,
					visit_id TEXT NOT NULL,
					destination_id TEXT NOT NULL,
					visited_at TEXT NOT NULL,
					PRIMARY KEY (user_id, visit_id)
				)`,
				`INSERT OR IGNORE INTO visits_v3 (user_id, visit_id, destination_id, visited_at)
					SELECT user_id, visit_id, destination_id, visited_at FROM visits`,
				`DROP TABLE visits`,
				`ALTER TABLE visits_v3 RENAME TO visits`,
				`CREATE INDEX IF NOT EXISTS idx_visits_user ON visits(user_id, destination_id)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
		s.log.Info(ctx, "applied migration",
			logger.Int("version", m.Version),
			logger.String("description", m.Description))
	}

	var final int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&final); err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if final != expectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", expectedSchemaVersion, final)
	}
	return nil
}
