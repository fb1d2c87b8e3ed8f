package in

import (
	"context"
	"time"

	"cradle/internal/modules/journal/dto"
)

type Usecase interface {
	// Write creates or refreshes the note for the day containing at.
	Write(ctx context.Context, at time.Time) (dto.WriteOutput, error)
	Preview(ctx context.Context, at time.Time) (dto.PreviewOutput, error)
}
