// Package kv is the device-local key-value namespace. It is one flat space
// shared by device-wide keys (appearance, tool usage) and per-user keys that
// embed the owning user id.
package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "cradle/internal/platform/errors"
)

type Store interface {
	// Get returns the raw value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore expects a database opened through sqlitedb.Open.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, apperrors.Storage(fmt.Errorf("get %s: %w", key, err))
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	const stmt = `
INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`
	if _, err := s.db.ExecContext(ctx, stmt, key, value, time.Now().UnixMilli()); err != nil {
		return apperrors.Storage(fmt.Errorf("set %s: %w", key, err))
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key); err != nil {
		return apperrors.Storage(fmt.Errorf("delete %s: %w", key, err))
	}
	return nil
}
