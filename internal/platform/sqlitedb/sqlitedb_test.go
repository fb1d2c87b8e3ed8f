package sqlitedb

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenAppliesSchemaOnceAndIsIdempotent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "cradle.db")
	db, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	v, err := Version(context.Background(), db)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v != len(Schema) {
		t.Fatalf("expected schema version %d, got %d", len(Schema), v)
	}
	if err := Migrate(context.Background(), db, Schema); err != nil {
		t.Fatalf("second migrate should be a no-op: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != len(Schema) {
		t.Fatalf("expected %d recorded steps, got %d", len(Schema), n)
	}
	_ = db.Close()

	reopened, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.Exec(`INSERT INTO kv_entries (key, value, updated_at) VALUES ('k', 'v', 1)`); err != nil {
		t.Fatalf("kv table should exist after reopen: %v", err)
	}
}

func TestMigrateAddsOnlyNewSteps(t *testing.T) {
	t.Parallel()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "cradle.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	extra := append(append([]Step(nil), Schema...), Step{
		Version: len(Schema) + 1,
		Name:    "extra_index",
		SQL:     `CREATE INDEX IF NOT EXISTS idx_extra ON kv_entries(updated_at);`,
	})
	if err := Migrate(context.Background(), db, extra); err != nil {
		t.Fatalf("migrate extra: %v", err)
	}
	v, err := Version(context.Background(), db)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v != len(Schema)+1 {
		t.Fatalf("expected version %d, got %d", len(Schema)+1, v)
	}
}
