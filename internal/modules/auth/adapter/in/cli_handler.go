package in

import (
	"context"

	"cradle/internal/modules/auth/dto"
	authin "cradle/internal/modules/auth/port/in"
)

type CLIHandler struct {
	usecase authin.Usecase
}

func NewCLIHandler(usecase authin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, phone, password string) (dto.SessionOutput, error) {
	return h.usecase.Login(ctx, dto.LoginInput{Phone: phone, Password: password})
}

func (h CLIHandler) Register(ctx context.Context, phone, password, nickname string) (dto.SessionOutput, error) {
	return h.usecase.Register(ctx, dto.RegisterInput{Phone: phone, Password: password, Nickname: nickname})
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) WhoAmI(ctx context.Context) (dto.WhoAmIOutput, error) {
	return h.usecase.WhoAmI(ctx)
}

func (h CLIHandler) Bind(ctx context.Context, code string) (dto.BindInviteOutput, error) {
	return h.usecase.BindInvite(ctx, code)
}
