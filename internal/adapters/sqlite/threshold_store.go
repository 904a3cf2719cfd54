package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quentinrf/brightness-tracker/internal/domain"
)

const thresholdKey = "threshold"

// ThresholdStore implements domain.ThresholdStore with SQLite
type ThresholdStore struct {
	db *sql.DB
}

// NewThresholdStore creates a SQLite-backed preference store
func NewThresholdStore(dbPath string) (*ThresholdStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create table if not exists
	schema := `
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &ThresholdStore{db: db}, nil
}

// GetThreshold reads the stored threshold; a stored sentinel reads as unset
func (s *ThresholdStore) GetThreshold(ctx context.Context) (int, error) {
	query := `SELECT value FROM preferences WHERE key = ?`

	var value int
	err := s.db.QueryRowContext(ctx, query, thresholdKey).Scan(&value)
	if err == sql.ErrNoRows {
		return domain.NoThreshold, domain.ErrThresholdNotSet
	}
	if err != nil {
		return domain.NoThreshold, fmt.Errorf("failed to query threshold: %w", err)
	}

	if !domain.IsThresholdSet(value) {
		return domain.NoThreshold, domain.ErrThresholdNotSet
	}
	return value, nil
}

// SetThreshold upserts the threshold
func (s *ThresholdStore) SetThreshold(ctx context.Context, threshold int) error {
	query := `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, thresholdKey, threshold, time.Now().UTC().Format(domain.TimestampLayout))
	if err != nil {
		return fmt.Errorf("failed to store threshold: %w", err)
	}
	return nil
}

// UpdatedAt returns when the threshold was last stored
func (s *ThresholdStore) UpdatedAt(ctx context.Context) (time.Time, error) {
	query := `SELECT updated_at FROM preferences WHERE key = ?`

	var updatedAt string
	err := s.db.QueryRowContext(ctx, query, thresholdKey).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, domain.ErrThresholdNotSet
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query threshold: %w", err)
	}

	ts, err := time.Parse(domain.TimestampLayout, updatedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	return ts, nil
}

// Close closes the database connection
func (s *ThresholdStore) Close() error {
	return s.db.Close()
}
