// Package sqlitedb opens the device-local database shared by every account
// that has used this device, and evolves its schema through an ordered list
// of additive steps.
package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

// Step is one schema version. Steps only add tables or indexes; a column is
// never renamed or dropped in place so older binaries can still read rows.
type Step struct {
	Version int
	Name    string
	SQL     string
}

// Open creates the parent directory, opens the database and applies every
// step in Schema that has not been recorded yet.
func Open(ctx context.Context, dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serialises writes; pragmas below then hold for
	// every statement.
	db.SetMaxOpenConns(1)
	for _, p := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	if err := Migrate(ctx, db, Schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies steps in ascending version order. Re-running it is a no-op.
func Migrate(ctx context.Context, db *sql.DB, steps []Step) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at TEXT NOT NULL
);`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	ordered := append([]Step(nil), steps...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Version < ordered[j].Version })
	for _, step := range ordered {
		if applied[step.Version] {
			continue
		}
		if err := applyStep(ctx, db, step); err != nil {
			return err
		}
	}
	return nil
}

// Version reports the highest applied schema version.
func Version(ctx context.Context, db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(v.Int64), nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list schema versions: %w", err)
	}
	defer rows.Close()
	out := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan schema version: %w", err)
		}
		out[v] = true
	}
	return out, rows.Err()
}

func applyStep(ctx context.Context, db *sql.DB, step Step) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema v%d: %w", step.Version, err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
		return fmt.Errorf("apply schema v%d (%s): %w", step.Version, step.Name, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
		step.Version, step.Name, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("record schema v%d: %w", step.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema v%d: %w", step.Version, err)
	}
	return nil
}
