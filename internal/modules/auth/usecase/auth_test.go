package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"cradle/internal/modules/auth/domain"
	"cradle/internal/modules/auth/dto"
	authout "cradle/internal/modules/auth/port/out"
	"cradle/internal/modules/auth/service"
	apperrors "cradle/internal/platform/errors"
)

type clockAt struct{}

func (clockAt) Now() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

type store struct{ s *domain.Session }

func (m *store) Load(context.Context) (domain.Session, bool, error) {
	if m.s == nil {
		return domain.Session{}, false, nil
	}
	return *m.s, true, nil
}
func (m *store) Save(_ context.Context, s domain.Session) error { m.s = &s; return nil }
func (m *store) Clear(context.Context) error                    { m.s = nil; return nil }

type api struct{}

func (api) Login(_ context.Context, phone, _ string) (domain.Session, error) {
	return domain.Session{AccessToken: "a", RefreshToken: "r", User: domain.User{ID: "u1", Phone: phone}}, nil
}
func (a api) Register(ctx context.Context, phone, pw, _ string) (domain.Session, error) {
	return a.Login(ctx, phone, pw)
}
func (api) Refresh(context.Context, string) (domain.Tokens, error) {
	return domain.Tokens{AccessToken: "a2"}, nil
}

type invites struct {
	code  string
	calls int
}

func (f *invites) Bind(_ context.Context, code string) (authout.BindResult, error) {
	f.calls++
	return authout.BindResult{InviteBound: true, Code: f.code}, nil
}

func TestBindInvite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inv := &invites{code: "WELCOME1"}
	uc := NewInteractor(service.NewSessionManager(clockAt{}, &store{}, api{}, nil), inv, nil)

	if _, err := uc.BindInvite(ctx, "WELCOME1"); !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated for guest, got %v", err)
	}
	if inv.calls != 0 {
		t.Fatalf("guest bind must not reach the backend")
	}

	var events []dto.SessionEvent
	uc.Subscribe(func(_ context.Context, ev dto.SessionEvent) { events = append(events, ev) })
	if _, err := uc.Login(ctx, dto.LoginInput{Phone: "138", Password: "pw"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, err := uc.BindInvite(ctx, "WELCOME1")
	if err != nil || !out.InviteBound || out.AlreadyBound {
		t.Fatalf("unexpected bind %+v %v", out, err)
	}
	who, err := uc.WhoAmI(ctx)
	if err != nil || !who.SignedIn || !who.User.InviteBound {
		t.Fatalf("expected bound user, got %+v %v", who, err)
	}

	inv.code = domain.AlreadyBoundCode
	out, err = uc.BindInvite(ctx, "OTHER")
	if err != nil || !out.InviteBound || !out.AlreadyBound {
		t.Fatalf("already bound must succeed, got %+v %v", out, err)
	}
	if len(events) != 2 || events[0].Kind != dto.SessionCreated || events[1].Kind != dto.SessionRefreshed {
		t.Fatalf("unexpected events %+v", events)
	}
}
