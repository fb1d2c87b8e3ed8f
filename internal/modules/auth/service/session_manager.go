package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"cradle/internal/modules/auth/domain"
	"cradle/internal/modules/auth/dto"
	authout "cradle/internal/modules/auth/port/out"
	"cradle/internal/platform/clock"
	apperrors "cradle/internal/platform/errors"
	"cradle/internal/platform/httpapi"
	"cradle/internal/platform/logger"
	"cradle/internal/platform/metrics"
)

const refreshKey = "refresh"

// SessionManager owns the device session: it answers who the current user is,
// hands out access tokens, and tells subscribers when the session changes.
type SessionManager struct {
	clock clock.Clock
	store authout.SessionStore
	api   authout.AuthAPI
	log   *logger.Logger

	mu      sync.Mutex
	loaded  bool
	current *domain.Session

	subMu   sync.Mutex
	nextSub int
	subs    map[int]func(context.Context, dto.SessionEvent)

	flight singleflight.Group
}

func NewSessionManager(clock clock.Clock, store authout.SessionStore, api authout.AuthAPI, log *logger.Logger) *SessionManager {
	if log == nil {
		log = logger.NewNop()
	}
	return &SessionManager{
		clock: clock,
		store: store,
		api:   api,
		log:   log.With("component", "SessionManager"),
		subs:  map[int]func(context.Context, dto.SessionEvent){},
	}
}

var _ httpapi.TokenSource = (*SessionManager)(nil)

// Subscribe registers fn for session events. Events are delivered in order on
// the goroutine that changed the session.
func (m *SessionManager) Subscribe(fn func(context.Context, dto.SessionEvent)) (unsubscribe func()) {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subMu.Lock()
			delete(m.subs, id)
			m.subMu.Unlock()
		})
	}
}

// pending is a session event held back until no lock or in-flight refresh is
// held, so subscribers may call back into the manager.
type pending struct {
	kind     dto.EventKind
	user     *domain.User
	external bool
}

func (m *SessionManager) emit(ctx context.Context, kind dto.EventKind, user *domain.User) {
	m.deliver(ctx, pending{kind: kind, user: user})
}

func (m *SessionManager) deliver(ctx context.Context, events ...pending) {
	if len(events) == 0 {
		return
	}
	m.subMu.Lock()
	fns := make([]func(context.Context, dto.SessionEvent), 0, len(m.subs))
	for i := 0; i < m.nextSub; i++ {
		if fn, ok := m.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	m.subMu.Unlock()

	for _, p := range events {
		ev := dto.SessionEvent{Kind: p.kind, External: p.external}
		if p.user != nil {
			u := *p.user
			ev.User = &u
		}
		m.log.Debug("session event", "kind", p.kind, "external", p.external, "subscribers", len(fns))
		for _, fn := range fns {
			fn(ctx, ev)
		}
	}
}

// load reads the stored session and reconciles the cached one with it. The
// store is shared with other processes on the device (the daemon and one-shot
// commands), so a sign-in or sign-out made elsewhere shows up here as an
// external event. The first read of a process is not a change.
func (m *SessionManager) load(ctx context.Context) (domain.Session, bool, []pending, error) {
	s, ok, err := m.store.Load(ctx)
	if err != nil {
		return domain.Session{}, false, nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var events []pending
	if m.loaded {
		events = observed(m.current, s, ok)
	}
	m.loaded = true
	if ok {
		m.current = &s
	} else {
		m.current = nil
	}
	return s, ok, events, nil
}

func observed(prev *domain.Session, next domain.Session, ok bool) []pending {
	switch {
	case prev == nil && !ok:
		return nil
	case prev != nil && !ok:
		return []pending{{kind: dto.SessionCleared, external: true}}
	case prev == nil || prev.User.ID != next.User.ID:
		u := next.User
		return []pending{{kind: dto.SessionCreated, user: &u, external: true}}
	case prev.User != next.User:
		u := next.User
		return []pending{{kind: dto.SessionRefreshed, user: &u, external: true}}
	}
	return nil
}

func (m *SessionManager) session(ctx context.Context) (domain.Session, bool, error) {
	s, ok, events, err := m.load(ctx)
	if err != nil {
		return domain.Session{}, false, err
	}
	m.deliver(ctx, events...)
	return s, ok, nil
}

func (m *SessionManager) persist(ctx context.Context, s domain.Session) error {
	if err := m.store.Save(ctx, s); err != nil {
		return err
	}
	m.mu.Lock()
	m.loaded = true
	m.current = &s
	m.mu.Unlock()
	return nil
}

// Current returns the signed-in user.
func (m *SessionManager) Current(ctx context.Context) (domain.User, bool, error) {
	s, ok, err := m.session(ctx)
	if err != nil || !ok {
		return domain.User{}, false, err
	}
	return s.User, true, nil
}

// CurrentUser is Current for callers that treat an unreadable session as
// signed out.
func (m *SessionManager) CurrentUser(ctx context.Context) (domain.User, bool) {
	u, ok, err := m.Current(ctx)
	if err != nil {
		m.log.Warn("read session failed", "error", err)
		return domain.User{}, false
	}
	return u, ok
}

// CurrentUserID returns the signed-in user id, or false for a guest. A
// session that cannot be read counts as signed out.
func (m *SessionManager) CurrentUserID(ctx context.Context) (string, bool) {
	s, ok, err := m.session(ctx)
	if err != nil {
		m.log.Warn("read session failed", "error", err)
		return "", false
	}
	if !ok {
		return "", false
	}
	return s.User.ID, true
}

func (m *SessionManager) Login(ctx context.Context, phone, password string) (domain.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: phone and password are required", apperrors.ErrInvalidInput)
	}
	s, err := m.api.Login(ctx, phone, password)
	if err != nil {
		return domain.User{}, err
	}
	return m.signedIn(ctx, s)
}

func (m *SessionManager) Register(ctx context.Context, phone, password, nickname string) (domain.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: phone and password are required", apperrors.ErrInvalidInput)
	}
	s, err := m.api.Register(ctx, phone, password, strings.TrimSpace(nickname))
	if err != nil {
		return domain.User{}, err
	}
	return m.signedIn(ctx, s)
}

func (m *SessionManager) signedIn(ctx context.Context, s domain.Session) (domain.User, error) {
	if err := m.persist(ctx, s); err != nil {
		return domain.User{}, err
	}
	m.log.Info("signed in", "user_id", s.User.ID)
	m.emit(ctx, dto.SessionCreated, &s.User)
	return s.User, nil
}

// Logout clears the local session. Records stay on the device under the
// user's id.
func (m *SessionManager) Logout(ctx context.Context) error {
	return m.Invalidate(ctx)
}

// Invalidate drops the stored session and notifies subscribers when there was
// one.
func (m *SessionManager) Invalidate(ctx context.Context) error {
	events, err := m.clear(ctx)
	m.deliver(ctx, events...)
	return err
}

func (m *SessionManager) clear(ctx context.Context) ([]pending, error) {
	_, had, events, _ := m.load(ctx)
	if err := m.store.Clear(ctx); err != nil {
		return events, err
	}
	m.mu.Lock()
	m.loaded = true
	m.current = nil
	m.mu.Unlock()
	if had {
		m.log.Info("session cleared")
		events = append(events, pending{kind: dto.SessionCleared})
	}
	return events, nil
}

// MarkInviteBound records that the backend bound an invite to the current
// user.
func (m *SessionManager) MarkInviteBound(ctx context.Context) (domain.User, error) {
	s, ok, err := m.session(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, apperrors.ErrNotAuthenticated
	}
	if s.User.InviteBound {
		return s.User, nil
	}
	s.User.InviteBound = true
	if err := m.persist(ctx, s); err != nil {
		return domain.User{}, err
	}
	m.emit(ctx, dto.SessionRefreshed, &s.User)
	return s.User, nil
}

// AccessToken returns the stored token, refreshing first when its exp claim
// has already passed.
func (m *SessionManager) AccessToken(ctx context.Context) (string, error) {
	s, ok, err := m.session(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperrors.ErrNotAuthenticated
	}
	if s.AccessExpired(m.clock.Now()) {
		return m.Refresh(ctx, s.AccessToken)
	}
	return s.AccessToken, nil
}

// Refresh exchanges the refresh token for a new pair. Concurrent callers
// share one request and its outcome. When stale no longer matches the stored
// token someone already refreshed and the stored token is returned as is.
// Subscribers hear about the outcome only after the shared call has finished,
// so they are free to make protected calls that refresh again.
func (m *SessionManager) Refresh(ctx context.Context, stale string) (string, error) {
	var events []pending
	v, err, shared := m.flight.Do(refreshKey, func() (any, error) {
		token, evs, err := m.refresh(context.WithoutCancel(ctx), stale)
		events = evs
		return token, err
	})
	if shared {
		m.log.Debug("joined in-flight refresh")
	}
	m.deliver(ctx, events...)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (m *SessionManager) refresh(ctx context.Context, stale string) (string, []pending, error) {
	s, ok, events, err := m.load(ctx)
	if err != nil {
		return "", events, err
	}
	if !ok {
		return "", events, apperrors.ErrNotAuthenticated
	}
	if stale != "" && s.AccessToken != stale {
		return s.AccessToken, events, nil
	}

	tokens, err := m.api.Refresh(ctx, s.RefreshToken)
	if err != nil {
		if transient(err) {
			metrics.TokenRefreshesTotal.WithLabelValues("unreachable").Inc()
			return "", events, err
		}
		metrics.TokenRefreshesTotal.WithLabelValues("rejected").Inc()
		m.log.Warn("token refresh rejected, signing out", "user_id", s.User.ID, "error", err)
		cleared, clearErr := m.clear(ctx)
		if clearErr != nil {
			m.log.Error("clear session after failed refresh", "error", clearErr)
		}
		return "", append(events, cleared...), errors.Join(apperrors.ErrAuthExpired, err)
	}

	next := s.WithTokens(tokens)
	if err := m.persist(ctx, next); err != nil {
		return "", events, err
	}
	metrics.TokenRefreshesTotal.WithLabelValues("ok").Inc()
	return next.AccessToken, append(events, pending{kind: dto.SessionRefreshed, user: &next.User}), nil
}

// transient reports failures where the backend never answered; the session
// survives those.
func transient(err error) bool {
	switch httpapi.StatusOf(err) {
	case httpapi.StatusNetwork, http.StatusRequestTimeout:
		return true
	}
	return false
}
