package out

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"cradle/internal/modules/auth/domain"
	"cradle/internal/platform/httpapi"
	"cradle/internal/platform/kv"
	"cradle/internal/platform/sqlitedb"
)

func TestHTTPAuthAPIDecodesSessionAndRefresh(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		switch r.URL.Path {
		case "/v1/auth/login":
			if body["phone"] != "138" || body["password"] != "pw" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"wrong phone or password"}`))
				return
			}
			_, _ = w.Write([]byte(`{"accessToken":"a1","refreshToken":"r1","user":{"id":"u1","phone":"138","nickname":"","inviteBound":true,"createdAt":"2026-01-01T00:00:00Z"}}`))
		case "/v1/auth/refresh":
			if body["refreshToken"] != "r1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"accessToken":"a2","refreshToken":"r2"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	api := NewHTTPAuthAPI(httpapi.New(nil, httpapi.Config{BaseURL: srv.URL, Timeout: time.Second}))
	ctx := context.Background()

	s, err := api.Login(ctx, "138", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if s.User.ID != "u1" || !s.User.InviteBound || s.RefreshToken != "r1" {
		t.Fatalf("unexpected session %+v", s)
	}
	if _, err := api.Login(ctx, "138", "nope"); httpapi.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %v", err)
	}

	tokens, err := api.Refresh(ctx, "r1")
	if err != nil || tokens.AccessToken != "a2" || tokens.RefreshToken != "r2" {
		t.Fatalf("unexpected refresh %+v %v", tokens, err)
	}
}

func TestKVSessionStoreRoundTrip(t *testing.T) {
	t.Parallel()
	db, err := sqlitedb.Open(context.Background(), filepath.Join(t.TempDir(), "cradle.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	kvs := kv.NewSQLiteStore(db)
	store := NewKVSessionStore(kvs)
	ctx := context.Background()

	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("expected empty store, got %v %v", ok, err)
	}
	want := domain.Session{AccessToken: "a", RefreshToken: "r", User: domain.User{ID: "u1", Phone: "138"}}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := store.Load(ctx)
	if err != nil || !ok || got != want {
		t.Fatalf("unexpected load %+v %v %v", got, ok, err)
	}

	if err := kvs.Set(ctx, "auth:session", "{broken"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("corrupt blob must read as signed out, got %v %v", ok, err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
}
