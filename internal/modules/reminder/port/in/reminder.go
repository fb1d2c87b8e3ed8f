package in

import (
	"context"

	"cradle/internal/modules/reminder/dto"
)

type Usecase interface {
	// Start runs the periodic loop until the returned stop func is called or
	// ctx ends. stop waits for an in-flight tick to finish.
	Start(ctx context.Context) (stop func())
	Tick(ctx context.Context) (dto.TickReport, error)
	Status(ctx context.Context) dto.EngineStatus
}
