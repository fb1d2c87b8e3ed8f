package out

import (
	"context"

	"cradle/internal/modules/auth/domain"
)

// SessionStore persists the one session of this device.
type SessionStore interface {
	// Load reports false when nothing usable is stored.
	Load(ctx context.Context) (domain.Session, bool, error)
	Save(ctx context.Context, s domain.Session) error
	Clear(ctx context.Context) error
}

// AuthAPI covers the unauthenticated endpoints. None of them is retried after
// a 401.
type AuthAPI interface {
	Login(ctx context.Context, phone, password string) (domain.Session, error)
	Register(ctx context.Context, phone, password, nickname string) (domain.Session, error)
	Refresh(ctx context.Context, refreshToken string) (domain.Tokens, error)
}

type BindResult struct {
	InviteBound bool
	Code        string
}

// InviteAPI redeems invite codes on a protected endpoint.
type InviteAPI interface {
	Bind(ctx context.Context, code string) (BindResult, error)
}
