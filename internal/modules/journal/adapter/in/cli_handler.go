package in

import (
	"context"
	"time"

	"cradle/internal/modules/journal/dto"
	journalin "cradle/internal/modules/journal/port/in"
)

type CLIHandler struct {
	usecase journalin.Usecase
}

func NewCLIHandler(usecase journalin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Write(ctx context.Context, at time.Time) (dto.WriteOutput, error) {
	return h.usecase.Write(ctx, at)
}

func (h CLIHandler) Show(ctx context.Context, at time.Time) (dto.PreviewOutput, error) {
	return h.usecase.Preview(ctx, at)
}
