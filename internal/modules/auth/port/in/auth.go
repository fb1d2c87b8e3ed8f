package in

import (
	"context"

	"cradle/internal/modules/auth/dto"
)

type Usecase interface {
	Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error)
	Register(ctx context.Context, input dto.RegisterInput) (dto.SessionOutput, error)
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) (dto.WhoAmIOutput, error)
	BindInvite(ctx context.Context, code string) (dto.BindInviteOutput, error)
}

// Identity is what other modules need from auth: the user that scopes their
// data, and a signal when that changes.
type Identity interface {
	CurrentUserID(ctx context.Context) (string, bool)
	Subscribe(fn func(context.Context, dto.SessionEvent)) (unsubscribe func())
}
