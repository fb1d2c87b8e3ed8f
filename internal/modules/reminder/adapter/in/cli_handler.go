package in

import (
	"context"

	"cradle/internal/modules/reminder/dto"
	reminderin "cradle/internal/modules/reminder/port/in"
)

type CLIHandler struct {
	usecase reminderin.Usecase
}

func NewCLIHandler(usecase reminderin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Tick(ctx context.Context) (dto.TickReport, error) {
	return h.usecase.Tick(ctx)
}

func (h CLIHandler) Status(ctx context.Context) dto.EngineStatus {
	return h.usecase.Status(ctx)
}

// Run blocks, ticking on the engine's interval, until ctx ends.
func (h CLIHandler) Run(ctx context.Context) {
	stop := h.usecase.Start(ctx)
	<-ctx.Done()
	stop()
}
