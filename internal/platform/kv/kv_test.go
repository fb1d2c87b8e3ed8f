package kv

import (
	"context"
	"path/filepath"
	"testing"

	"cradle/internal/platform/sqlitedb"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sqlitedb.Open(context.Background(), filepath.Join(t.TempDir(), "cradle.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db)
}

func TestSetGetDelete(t *testing.T) {
	t.Parallel()
	s := newStore(t)
	ctx := context.Background()
	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%t err=%v", ok, err)
	}
	if err := s.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "a", "2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := s.Get(ctx, "a")
	if err != nil || !ok || v != "2" {
		t.Fatalf("expected overwritten value 2, got %q ok=%t err=%v", v, ok, err)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "a"); ok {
		t.Fatalf("key should be gone")
	}
}

func TestLoadJSONFallsBackOnCorruptValue(t *testing.T) {
	t.Parallel()
	s := newStore(t)
	ctx := context.Background()
	type shape struct {
		N int `json:"n"`
	}
	if err := s.Set(ctx, "bad", "{not json"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := LoadJSON(ctx, s, "bad", shape{N: 7})
	if err != nil || ok || got.N != 7 {
		t.Fatalf("expected default for corrupt value, got %+v ok=%t err=%v", got, ok, err)
	}
	if err := SaveJSON(ctx, s, "good", shape{N: 3}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err = LoadJSON(ctx, s, "good", shape{N: 7})
	if err != nil || !ok || got.N != 3 {
		t.Fatalf("expected stored value, got %+v ok=%t err=%v", got, ok, err)
	}
}
