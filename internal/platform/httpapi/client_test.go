package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperrors "cradle/internal/platform/errors"
)

func TestDoDecodesSuccessAndServerErrors(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			if r.Header.Get("Authorization") != "Bearer tok" {
				t.Errorf("missing bearer header")
			}
			_, _ = w.Write([]byte(`{"value":"x"}`))
		case "/bad":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"invite code already used"}`))
		}
	}))
	defer srv.Close()

	c := New(nil, Config{BaseURL: srv.URL + "/", Timeout: time.Second})
	var out struct {
		Value string `json:"value"`
	}
	if err := c.Do(context.Background(), http.MethodGet, "/ok", nil, "tok", &out); err != nil {
		t.Fatalf("do ok: %v", err)
	}
	if out.Value != "x" {
		t.Fatalf("unexpected decoded value %q", out.Value)
	}

	err := c.Do(context.Background(), http.MethodPost, "/bad", map[string]string{"code": "A"}, "", nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Message != "invite code already used" || apiErr.Kind != KindServer {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestDoTimeoutIsDistinctFromNetworkFailure(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(nil, Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	err := c.Do(context.Background(), http.MethodGet, "/slow", nil, "", nil)
	if StatusOf(err) != StatusTimeout || !IsKind(err, KindTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}

	dead := New(nil, Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	err = dead.Do(context.Background(), http.MethodGet, "/", nil, "", nil)
	if StatusOf(err) != StatusNetwork || !IsKind(err, KindNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

type fakeTokens struct {
	token       string
	refreshed   string
	refreshErr  error
	refreshes   atomic.Int32
	invalidated atomic.Int32
}

func (f *fakeTokens) AccessToken(context.Context) (string, error) {
	if f.token == "" {
		return "", apperrors.ErrNotAuthenticated
	}
	return f.token, nil
}

func (f *fakeTokens) Refresh(context.Context, string) (string, error) {
	f.refreshes.Add(1)
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	f.token = f.refreshed
	return f.refreshed, nil
}

func (f *fakeTokens) Invalidate(context.Context) error {
	f.invalidated.Add(1)
	f.token = ""
	return nil
}

func TestAuthorizedRetriesOnceAfterRefresh(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tokens := &fakeTokens{token: "stale", refreshed: "fresh"}
	ac := NewAuthorized(New(nil, Config{BaseURL: srv.URL, Timeout: time.Second}), tokens)
	if err := ac.Do(context.Background(), http.MethodGet, "/v1/sync/pull", nil, nil); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if calls.Load() != 2 || tokens.refreshes.Load() != 1 {
		t.Fatalf("expected 2 calls and 1 refresh, got %d and %d", calls.Load(), tokens.refreshes.Load())
	}
}

func TestAuthorizedSecond401EndsSession(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &fakeTokens{token: "stale", refreshed: "also-bad"}
	ac := NewAuthorized(New(nil, Config{BaseURL: srv.URL, Timeout: time.Second}), tokens)
	err := ac.Do(context.Background(), http.MethodGet, "/v1/sync/pull", nil, nil)
	if StatusOf(err) != 401 || !errors.Is(err, apperrors.ErrAuthExpired) {
		t.Fatalf("expected terminal 401, got %v", err)
	}
	if tokens.refreshes.Load() != 1 || tokens.invalidated.Load() != 1 {
		t.Fatalf("expected one refresh and invalidation, got %d/%d", tokens.refreshes.Load(), tokens.invalidated.Load())
	}

	none := NewAuthorized(New(nil, Config{BaseURL: srv.URL, Timeout: time.Second}), &fakeTokens{})
	if err := none.Do(context.Background(), http.MethodGet, "/x", nil, nil); StatusOf(err) != 401 {
		t.Fatalf("expected 401 without a session, got %v", err)
	}
}
