package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cradle/internal/modules/auth/domain"
	"cradle/internal/modules/auth/dto"
	apperrors "cradle/internal/platform/errors"
	"cradle/internal/platform/httpapi"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type memStore struct {
	mu sync.Mutex
	s  *domain.Session
}

func (m *memStore) Load(context.Context) (domain.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.s == nil {
		return domain.Session{}, false, nil
	}
	return *m.s, true, nil
}

func (m *memStore) Save(_ context.Context, s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = &s
	return nil
}

func (m *memStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = nil
	return nil
}

type fakeAPI struct {
	refreshes  atomic.Int32
	entered    chan struct{}
	release    chan struct{}
	refreshErr error
	enterOnce  sync.Once
}

func (f *fakeAPI) Login(_ context.Context, phone, _ string) (domain.Session, error) {
	return domain.Session{AccessToken: "a1", RefreshToken: "r1", User: domain.User{ID: "u-" + phone, Phone: phone}}, nil
}

func (f *fakeAPI) Register(ctx context.Context, phone, password, _ string) (domain.Session, error) {
	return f.Login(ctx, phone, password)
}

func (f *fakeAPI) Refresh(context.Context, string) (domain.Tokens, error) {
	f.refreshes.Add(1)
	if f.entered != nil {
		f.enterOnce.Do(func() { close(f.entered) })
	}
	if f.release != nil {
		<-f.release
	}
	if f.refreshErr != nil {
		return domain.Tokens{}, f.refreshErr
	}
	return domain.Tokens{AccessToken: "a2", RefreshToken: "r2"}, nil
}

func newManager(api *fakeAPI, store *memStore) *SessionManager {
	return NewSessionManager(fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}, store, api, nil)
}

func TestConcurrentRefreshIssuesOneRequest(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{entered: make(chan struct{}), release: make(chan struct{})}
	store := &memStore{s: &domain.Session{AccessToken: "a1", RefreshToken: "r1", User: domain.User{ID: "u1"}}}
	m := newManager(api, store)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = m.Refresh(context.Background(), "a1")
		}(i)
	}
	<-api.entered
	time.Sleep(20 * time.Millisecond)
	close(api.release)
	wg.Wait()

	if got := api.refreshes.Load(); got != 1 {
		t.Fatalf("expected one refresh request, got %d", got)
	}
	for i := range results {
		if errs[i] != nil || results[i] != "a2" {
			t.Fatalf("caller %d got %q, %v", i, results[i], errs[i])
		}
	}
	if store.s.RefreshToken != "r2" {
		t.Fatalf("expected rotated refresh token, got %+v", store.s)
	}
}

func TestRejectedRefreshClearsSession(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{refreshErr: &httpapi.Error{Status: http.StatusUnauthorized, Kind: httpapi.KindAuth, Message: "refresh token revoked"}}
	store := &memStore{s: &domain.Session{AccessToken: "a1", RefreshToken: "r1", User: domain.User{ID: "u1"}}}
	m := newManager(api, store)

	var events []dto.EventKind
	m.Subscribe(func(_ context.Context, ev dto.SessionEvent) { events = append(events, ev.Kind) })

	_, err := m.Refresh(context.Background(), "a1")
	if !errors.Is(err, apperrors.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired, got %v", err)
	}
	if _, ok := m.CurrentUserID(context.Background()); ok {
		t.Fatalf("expected signed out after rejected refresh")
	}
	if store.s != nil {
		t.Fatalf("stored session must be cleared")
	}
	if len(events) != 1 || events[0] != dto.SessionCleared {
		t.Fatalf("expected one cleared event, got %v", events)
	}
}

func TestUnreachableRefreshKeepsSession(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{refreshErr: &httpapi.Error{Status: httpapi.StatusNetwork, Kind: httpapi.KindNetwork}}
	store := &memStore{s: &domain.Session{AccessToken: "a1", RefreshToken: "r1", User: domain.User{ID: "u1"}}}
	m := newManager(api, store)

	if _, err := m.Refresh(context.Background(), "a1"); httpapi.StatusOf(err) != httpapi.StatusNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
	if uid, ok := m.CurrentUserID(context.Background()); !ok || uid != "u1" {
		t.Fatalf("session must survive a network failure, got %q %v", uid, ok)
	}
}

func TestAccessTokenRefreshesExpiredJWT(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	api := &fakeAPI{}
	m := newManager(api, &memStore{s: &domain.Session{AccessToken: expired, RefreshToken: "r1", User: domain.User{ID: "u1"}}})

	tok, err := m.AccessToken(context.Background())
	if err != nil || tok != "a2" {
		t.Fatalf("expected refreshed token, got %q %v", tok, err)
	}
	if api.refreshes.Load() != 1 {
		t.Fatalf("expected one refresh, got %d", api.refreshes.Load())
	}

	signedOut := newManager(&fakeAPI{}, &memStore{})
	if _, err := signedOut.AccessToken(context.Background()); !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestSessionEventsInOrder(t *testing.T) {
	t.Parallel()
	m := newManager(&fakeAPI{}, &memStore{})
	ctx := context.Background()

	var got []dto.SessionEvent
	unsubscribe := m.Subscribe(func(_ context.Context, ev dto.SessionEvent) { got = append(got, ev) })

	if _, ok := m.CurrentUserID(ctx); ok {
		t.Fatalf("expected guest before login")
	}
	if _, err := m.Login(ctx, "13800000000", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if uid, ok := m.CurrentUserID(ctx); !ok || uid != "u-13800000000" {
		t.Fatalf("unexpected user %q %v", uid, ok)
	}
	if _, err := m.MarkInviteBound(ctx); err != nil {
		t.Fatalf("mark bound: %v", err)
	}
	if _, err := m.MarkInviteBound(ctx); err != nil {
		t.Fatalf("mark bound again: %v", err)
	}
	if err := m.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	unsubscribe()
	if _, err := m.Login(ctx, "139", "pw"); err != nil {
		t.Fatalf("login again: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected created, refreshed, cleared; got %+v", got)
	}
	if got[0].Kind != dto.SessionCreated || got[0].User == nil || got[0].User.InviteBound {
		t.Fatalf("unexpected first event %+v", got[0])
	}
	if got[1].Kind != dto.SessionRefreshed || got[1].User == nil || !got[1].User.InviteBound {
		t.Fatalf("unexpected second event %+v", got[1])
	}
	if got[2].Kind != dto.SessionCleared || got[2].User != nil {
		t.Fatalf("unexpected third event %+v", got[2])
	}

	if _, err := m.Login(ctx, " ", "pw"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSubscriberMayRefreshAgain(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{}
	m := newManager(api, &memStore{s: &domain.Session{AccessToken: "a1", RefreshToken: "r1", User: domain.User{ID: "u1"}}})
	ctx := context.Background()

	var nested int
	m.Subscribe(func(ctx context.Context, ev dto.SessionEvent) {
		if ev.Kind != dto.SessionRefreshed || nested > 0 {
			return
		}
		nested++
		if _, err := m.Refresh(ctx, "a2"); err != nil {
			t.Errorf("nested refresh: %v", err)
		}
	})

	done := make(chan error, 1)
	go func() {
		_, err := m.Refresh(ctx, "a1")
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("refresh: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("refresh did not return while a subscriber refreshed again")
	}
	if nested != 1 || api.refreshes.Load() != 2 {
		t.Fatalf("nested = %d, refresh requests = %d", nested, api.refreshes.Load())
	}
}

func TestSharedStoreChangesAreObserved(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &memStore{}
	cli := newManager(&fakeAPI{}, store)
	daemon := newManager(&fakeAPI{}, store)

	var got []dto.SessionEvent
	daemon.Subscribe(func(_ context.Context, ev dto.SessionEvent) { got = append(got, ev) })

	if _, ok := daemon.CurrentUserID(ctx); ok {
		t.Fatalf("expected guest before any login")
	}
	if _, err := cli.Login(ctx, "alice", "pw"); err != nil {
		t.Fatalf("login alice: %v", err)
	}
	if uid, _ := daemon.CurrentUserID(ctx); uid != "u-alice" {
		t.Fatalf("daemon user = %q, want u-alice", uid)
	}
	if err := cli.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := cli.Login(ctx, "bob", "pw"); err != nil {
		t.Fatalf("login bob: %v", err)
	}
	if uid, _ := daemon.CurrentUserID(ctx); uid != "u-bob" {
		t.Fatalf("daemon user after switch = %q, want u-bob", uid)
	}
	if err := cli.Logout(ctx); err != nil {
		t.Fatalf("logout bob: %v", err)
	}
	if _, ok := daemon.CurrentUserID(ctx); ok {
		t.Fatalf("daemon still signed in after logout elsewhere")
	}

	want := []dto.EventKind{dto.SessionCreated, dto.SessionCreated, dto.SessionCleared}
	if len(got) != len(want) {
		t.Fatalf("events = %+v", got)
	}
	for i, ev := range got {
		if ev.Kind != want[i] || !ev.External {
			t.Fatalf("event %d = %+v, want external %s", i, ev, want[i])
		}
	}
	if got[1].User == nil || got[1].User.ID != "u-bob" {
		t.Fatalf("switch event user = %+v", got[1].User)
	}
}
