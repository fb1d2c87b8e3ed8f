package usecase

import (
	"context"

	"cradle/internal/modules/auth/domain"
	"cradle/internal/modules/auth/dto"
	authin "cradle/internal/modules/auth/port/in"
	authout "cradle/internal/modules/auth/port/out"
	"cradle/internal/modules/auth/service"
	apperrors "cradle/internal/platform/errors"
	"cradle/internal/platform/logger"
)

type Interactor struct {
	sessions *service.SessionManager
	invites  authout.InviteAPI
	log      *logger.Logger
}

func NewInteractor(sessions *service.SessionManager, invites authout.InviteAPI, log *logger.Logger) *Interactor {
	if log == nil {
		log = logger.NewNop()
	}
	return &Interactor{sessions: sessions, invites: invites, log: log}
}

var (
	_ authin.Usecase  = (*Interactor)(nil)
	_ authin.Identity = (*Interactor)(nil)
)

func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error) {
	user, err := i.sessions.Login(ctx, input.Phone, input.Password)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return dto.SessionOutput{User: user}, nil
}

func (i *Interactor) Register(ctx context.Context, input dto.RegisterInput) (dto.SessionOutput, error) {
	user, err := i.sessions.Register(ctx, input.Phone, input.Password, input.Nickname)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return dto.SessionOutput{User: user}, nil
}

func (i *Interactor) Logout(ctx context.Context) error {
	return i.sessions.Logout(ctx)
}

func (i *Interactor) WhoAmI(ctx context.Context) (dto.WhoAmIOutput, error) {
	user, ok, err := i.sessions.Current(ctx)
	if err != nil {
		return dto.WhoAmIOutput{}, err
	}
	return dto.WhoAmIOutput{SignedIn: ok, User: user}, nil
}

// BindInvite redeems code for the signed-in user. An account that was bound
// before reports AlreadyBound instead of failing.
func (i *Interactor) BindInvite(ctx context.Context, code string) (dto.BindInviteOutput, error) {
	if _, ok := i.sessions.CurrentUserID(ctx); !ok {
		return dto.BindInviteOutput{}, apperrors.ErrNotAuthenticated
	}
	res, err := i.invites.Bind(ctx, code)
	if err != nil {
		return dto.BindInviteOutput{}, err
	}
	already := res.Code == domain.AlreadyBoundCode
	if !res.InviteBound && !already {
		i.log.Warn("invite bind returned unbound", "code", res.Code)
		return dto.BindInviteOutput{Code: res.Code}, nil
	}
	if _, err := i.sessions.MarkInviteBound(ctx); err != nil {
		return dto.BindInviteOutput{}, err
	}
	return dto.BindInviteOutput{InviteBound: true, AlreadyBound: already, Code: res.Code}, nil
}

func (i *Interactor) CurrentUserID(ctx context.Context) (string, bool) {
	return i.sessions.CurrentUserID(ctx)
}

func (i *Interactor) Subscribe(fn func(context.Context, dto.SessionEvent)) func() {
	return i.sessions.Subscribe(fn)
}
