package in

import (
	"context"

	authdto "cradle/internal/modules/auth/dto"
	"cradle/internal/modules/cloudsync/dto"
)

type Usecase interface {
	// Bootstrap uploads the current user's records once per user and device.
	Bootstrap(ctx context.Context) (dto.BootstrapOutput, error)
	Push(ctx context.Context) (dto.PushOutput, error)
	Pull(ctx context.Context) (dto.PullOutput, error)
	// Resume runs the bootstrap at startup for an invite-bound session.
	// Failures are logged, never returned.
	Resume(ctx context.Context) dto.BootstrapOutput
	// OnSessionChanged is subscribed to auth session events.
	OnSessionChanged(ctx context.Context, ev authdto.SessionEvent)
}
