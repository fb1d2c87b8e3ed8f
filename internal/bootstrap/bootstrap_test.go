package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	authdto "cradle/internal/modules/auth/dto"
	"cradle/internal/platform/config"
	"cradle/internal/platform/logger"
)

// fakeBackend serves the auth, invite and sync endpoints and records what it
// received.
type fakeBackend struct {
	bound         bool
	rejectUploads bool

	mu        sync.Mutex
	uploads   []map[string]json.RawMessage
	bearers   []string
	refreshes int
}

func (b *fakeBackend) router() http.Handler {
	r := chi.NewRouter()
	session := func(w http.ResponseWriter, req *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(req.Body).Decode(&body)
		writeJSON(w, map[string]any{
			"accessToken":  "access-1",
			"refreshToken": "refresh-1",
			"user":         map[string]any{"id": "u-" + body["phone"], "phone": body["phone"], "nickname": body["nickname"], "inviteBound": b.bound},
		})
	}
	r.Post("/v1/auth/register", session)
	r.Post("/v1/auth/login", session)
	r.Post("/v1/auth/refresh", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		b.refreshes++
		n := b.refreshes
		b.mu.Unlock()
		writeJSON(w, map[string]any{"accessToken": fmt.Sprintf("access-%d", n+1), "refreshToken": fmt.Sprintf("refresh-%d", n+1)})
	})
	r.Post("/v1/invites/bind", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		b.bearers = append(b.bearers, req.Header.Get("Authorization"))
		b.mu.Unlock()
		writeJSON(w, map[string]any{"inviteBound": true})
	})
	r.Post("/v1/sync/bootstrap", func(w http.ResponseWriter, req *http.Request) {
		if b.rejectUploads {
			http.Error(w, `{"message":"token rejected"}`, http.StatusUnauthorized)
			return
		}
		var snap map[string]json.RawMessage
		if err := json.NewDecoder(req.Body).Decode(&snap); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		b.uploads = append(b.uploads, snap)
		b.mu.Unlock()
		writeJSON(w, map[string]any{"uploadedAt": "2026-03-01T12:00:00Z"})
	})
	return r
}

func (b *fakeBackend) uploadCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.uploads)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func testConfig(t *testing.T, baseURL string) config.Config {
	t.Helper()
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.APIBaseURL = baseURL
	cfg.Notifier = "log"
	return cfg
}

func TestBindUploadsLocalRecordsOnce(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.router())
	defer srv.Close()

	ctx := context.Background()
	cfg := testConfig(t, srv.URL)

	app, err := New(ctx, cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	// Guest records stay local and are never part of a user's upload.
	if _, err := app.RecordsCLI.KickStart(ctx); err != nil {
		t.Fatalf("guest kick start: %v", err)
	}
	if _, err := app.RecordsCLI.KickEnd(ctx); err != nil {
		t.Fatalf("guest kick end: %v", err)
	}

	if _, err := app.AuthCLI.Register(ctx, "13800000000", "secret", "Mia"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if backend.uploadCount() != 0 {
		t.Fatalf("unbound user must not upload")
	}
	if _, err := app.RecordsCLI.KickStart(ctx); err != nil {
		t.Fatalf("kick start: %v", err)
	}
	if _, err := app.RecordsCLI.KickTap(ctx); err != nil {
		t.Fatalf("kick tap: %v", err)
	}

	bind, err := app.AuthCLI.Bind(ctx, "WELCOME")
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if !bind.InviteBound {
		t.Fatalf("expected bound result, got %+v", bind)
	}
	if backend.bearers[0] != "Bearer access-1" {
		t.Fatalf("bind sent %q", backend.bearers[0])
	}
	if backend.uploadCount() != 1 {
		t.Fatalf("uploads after bind = %d, want 1", backend.uploadCount())
	}
	var kicks []json.RawMessage
	if err := json.Unmarshal(backend.uploads[0]["sessions"], &kicks); err != nil {
		t.Fatalf("decode sessions: %v", err)
	}
	if len(kicks) != 1 {
		t.Fatalf("uploaded %d kick sessions, want only the user's one", len(kicks))
	}

	again, err := app.SyncCLI.Bootstrap(ctx)
	if err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	if again.Uploaded || again.Skipped != "already_done" {
		t.Fatalf("second bootstrap = %+v", again)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// A restart resumes without uploading again.
	reopened, err := New(ctx, cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if backend.uploadCount() != 1 {
		t.Fatalf("uploads after restart = %d, want 1", backend.uploadCount())
	}
	who, err := reopened.AuthCLI.WhoAmI(ctx)
	if err != nil || !who.SignedIn || !who.User.InviteBound {
		t.Fatalf("session not restored: %+v %v", who, err)
	}
}

func TestLoginReturnsWhenUploadKeepsFailingAuth(t *testing.T) {
	backend := &fakeBackend{bound: true, rejectUploads: true}
	srv := httptest.NewServer(backend.router())
	defer srv.Close()

	ctx := context.Background()
	app, err := New(ctx, testConfig(t, srv.URL), logger.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer app.Close()

	type result struct {
		out authdto.SessionOutput
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := app.AuthCLI.Login(ctx, "13800000000", "secret")
		done <- result{out, err}
	}()
	select {
	case r := <-done:
		if r.err != nil || r.out.User.ID != "u-13800000000" {
			t.Fatalf("login = %+v, %v", r.out, r.err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("login blocked on the first upload")
	}
	if backend.uploadCount() != 0 {
		t.Fatalf("rejected uploads were recorded")
	}
	backend.mu.Lock()
	refreshes := backend.refreshes
	backend.mu.Unlock()
	if refreshes != 1 {
		t.Fatalf("refreshes = %d, want 1", refreshes)
	}
}

func TestDaemonFollowsAccountSwitchFromAnotherProcess(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.router())
	defer srv.Close()

	ctx := context.Background()
	cfg := testConfig(t, srv.URL)
	cli, err := New(ctx, cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("cli app: %v", err)
	}
	defer cli.Close()
	daemon, err := New(ctx, cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("daemon app: %v", err)
	}
	defer daemon.Close()

	if _, err := cli.AuthCLI.Login(ctx, "alice", "pw"); err != nil {
		t.Fatalf("login alice: %v", err)
	}
	report, err := daemon.ReminderCLI.Tick(ctx)
	if err != nil || report.UserID != "u-alice" {
		t.Fatalf("tick as alice = %+v, %v", report, err)
	}

	if err := cli.AuthCLI.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := cli.AuthCLI.Login(ctx, "bob", "pw"); err != nil {
		t.Fatalf("login bob: %v", err)
	}
	report, err = daemon.ReminderCLI.Tick(ctx)
	if err != nil || report.UserID != "u-bob" {
		t.Fatalf("tick after switch = %+v, %v", report, err)
	}

	if err := cli.AuthCLI.Logout(ctx); err != nil {
		t.Fatalf("logout bob: %v", err)
	}
	report, err = daemon.ReminderCLI.Tick(ctx)
	if err != nil || report.UserID != "" {
		t.Fatalf("tick after logout = %+v, %v", report, err)
	}
}

func TestJournalWriteUsesConfiguredDir(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.JournalDir = filepath.Join(t.TempDir(), "notes")

	app, err := New(ctx, cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer app.Close()

	if _, err := app.RecordsCLI.FeedBottle(ctx, nil, nil); err != nil {
		t.Fatalf("bottle: %v", err)
	}
	out, err := app.JournalCLI.Write(ctx, time.Now().In(cfg.Location))
	if err != nil {
		t.Fatalf("journal write: %v", err)
	}
	if !strings.HasPrefix(out.Path, filepath.Join(cfg.JournalDir, "guest")) {
		t.Fatalf("note path %q outside %q", out.Path, cfg.JournalDir)
	}
	raw, err := os.ReadFile(out.Path)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if !strings.Contains(string(raw), "feedings: 1") {
		t.Fatalf("note missing feeding count:\n%s", raw)
	}
}
