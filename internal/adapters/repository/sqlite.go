package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/pkg/logger"
)

// SQLiteStore persists profiles and visits in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	log logger.Logger
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
// Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := newSettings(opts)
	if path == "" {
		return nil, fmt.Errorf("%w: empty sqlite path", ErrInvalidArgument)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db, log: s.log}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Backend implements Store.
func (*SQLiteStore) Backend() string { return "sqlite" }

// Close implements Store.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// GetProfile implements ProfileStore.
func (s *SQLiteStore) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	var (
		p       model.Profile
		updated string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, interest, address, updated_at FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.Interest, &p.Address, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, ErrNotFound
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to query profile %s: %w", userID, err)
	}
	p.UpdatedAt = parseTime(updated)
	return p, nil
}

// PutProfile implements ProfileStore.
func (s *SQLiteStore) PutProfile(ctx context.Context, p model.Profile) error {
	if err := validateProfile(&p); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, interest, address, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			interest = excluded.interest,
			address = excluded.address,
			updated_at = excluded.updated_at`,
		p.UserID, p.Interest, p.Address, formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save profile %s: %w", p.UserID, err)
	}
	return nil
}

// VisitedIDs implements VisitStore.
func (s *SQLiteStore) VisitedIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT destination_id FROM visits WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits for %s: %w", userID, err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		out[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate visits: %w", err)
	}
	return out, nil
}

// RecordVisit implements VisitStore.
func (s *SQLiteStore) RecordVisit(ctx context.Context, v model.Visit) error {
	if err := validateVisit(&v); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO visits (visit_id, user_id, destination_id, visited_at) VALUES (?, ?, ?, ?)`,
		v.VisitID, v.UserID, v.DestinationID, formatTime(v.VisitedAt))
	if err != nil {
		return fmt.Errorf("failed to save visit %s: %w", v.VisitID, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
