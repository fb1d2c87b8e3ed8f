package out

import (
	"context"

	"cradle/internal/modules/reminder/domain"
)

type Notifier interface {
	Permission(ctx context.Context) (domain.Permission, error)
	Notify(ctx context.Context, n domain.Notification) error
}

type Identity interface {
	CurrentUserID(ctx context.Context) (string, bool)
}
