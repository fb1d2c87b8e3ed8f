package usecase

import (
	"context"

	authdto "cradle/internal/modules/auth/dto"
	"cradle/internal/modules/cloudsync/dto"
	cloudin "cradle/internal/modules/cloudsync/port/in"
	"cradle/internal/modules/cloudsync/service"
	"cradle/internal/platform/logger"
)

type Interactor struct {
	syncer *service.Syncer
	log    *logger.Logger
}

func NewInteractor(syncer *service.Syncer, log *logger.Logger) *Interactor {
	if log == nil {
		log = logger.NewNop()
	}
	return &Interactor{syncer: syncer, log: log}
}

var _ cloudin.Usecase = (*Interactor)(nil)

func (i *Interactor) Bootstrap(ctx context.Context) (dto.BootstrapOutput, error) {
	return i.syncer.Bootstrap(ctx)
}

func (i *Interactor) Push(ctx context.Context) (dto.PushOutput, error) {
	return i.syncer.Push(ctx)
}

func (i *Interactor) Pull(ctx context.Context) (dto.PullOutput, error) {
	return i.syncer.Pull(ctx)
}

func (i *Interactor) Resume(ctx context.Context) dto.BootstrapOutput {
	out, err := i.syncer.BootstrapIfBound(ctx)
	if err != nil {
		i.log.Warn("startup bootstrap failed", "error", err)
	}
	return out
}

// OnSessionChanged uploads once a session exists for an invite-bound user.
// Sign-in must not fail because of it, so errors only reach the log. Changes
// made by another process are left to that process.
func (i *Interactor) OnSessionChanged(ctx context.Context, ev authdto.SessionEvent) {
	if ev.External || ev.Kind == authdto.SessionCleared || ev.User == nil || !ev.User.InviteBound {
		return
	}
	out, err := i.syncer.Bootstrap(ctx)
	if err != nil {
		i.log.Warn("bootstrap after session change failed", "event", ev.Kind, "user_id", ev.User.ID, "error", err)
		return
	}
	if out.Uploaded {
		i.log.Debug("bootstrap after session change", "event", ev.Kind, "user_id", out.UserID)
	}
}
