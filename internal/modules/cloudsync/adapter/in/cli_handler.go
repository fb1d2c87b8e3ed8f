package in

import (
	"context"

	"cradle/internal/modules/cloudsync/dto"
	cloudin "cradle/internal/modules/cloudsync/port/in"
)

type CLIHandler struct {
	usecase cloudin.Usecase
}

func NewCLIHandler(usecase cloudin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Bootstrap(ctx context.Context) (dto.BootstrapOutput, error) {
	return h.usecase.Bootstrap(ctx)
}

func (h CLIHandler) Push(ctx context.Context) (dto.PushOutput, error) {
	return h.usecase.Push(ctx)
}

func (h CLIHandler) Pull(ctx context.Context) (dto.PullOutput, error) {
	return h.usecase.Pull(ctx)
}
