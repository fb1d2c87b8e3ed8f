package out

import (
	"context"

	authdto "cradle/internal/modules/auth/dto"
	"cradle/internal/modules/cloudsync/domain"
)

// Session is the signed-in state the upload needs.
type Session interface {
	CurrentUser(ctx context.Context) (authdto.User, bool)
	AccessToken(ctx context.Context) (string, error)
}

// FlagStore remembers which users finished the one-time bootstrap on this
// device.
type FlagStore interface {
	Done(ctx context.Context, userID string) (bool, error)
	MarkDone(ctx context.Context, userID string) error
}

type Pulled struct {
	Found      bool
	UploadedAt string
	Snapshot   domain.Snapshot
}

type SyncAPI interface {
	Bootstrap(ctx context.Context, snap domain.Snapshot) (uploadedAt string, err error)
	Push(ctx context.Context, snap domain.Snapshot) (uploadedAt string, err error)
	Pull(ctx context.Context) (Pulled, error)
}
