package usecase

import (
	"context"

	"cradle/internal/modules/reminder/dto"
	reminderin "cradle/internal/modules/reminder/port/in"
	"cradle/internal/modules/reminder/service"
)

type Interactor struct {
	engine *service.Engine
}

func NewInteractor(engine *service.Engine) reminderin.Usecase {
	return &Interactor{engine: engine}
}

func (i *Interactor) Start(ctx context.Context) func() {
	return i.engine.Start(ctx)
}

func (i *Interactor) Tick(ctx context.Context) (dto.TickReport, error) {
	return i.engine.Tick(ctx)
}

func (i *Interactor) Status(ctx context.Context) dto.EngineStatus {
	return i.engine.Status(ctx)
}
