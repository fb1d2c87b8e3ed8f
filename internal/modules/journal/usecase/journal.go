package usecase

import (
	"context"
	"time"

	"cradle/internal/modules/journal/dto"
	journalin "cradle/internal/modules/journal/port/in"
	"cradle/internal/modules/journal/service"
)

type Interactor struct {
	svc *service.JournalService
}

func NewInteractor(svc *service.JournalService) journalin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Write(ctx context.Context, at time.Time) (dto.WriteOutput, error) {
	return i.svc.Write(ctx, at)
}

func (i *Interactor) Preview(ctx context.Context, at time.Time) (dto.PreviewOutput, error) {
	return i.svc.Preview(ctx, at)
}
