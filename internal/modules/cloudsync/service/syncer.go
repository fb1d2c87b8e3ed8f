package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cradle/internal/modules/cloudsync/domain"
	"cradle/internal/modules/cloudsync/dto"
	cloudout "cradle/internal/modules/cloudsync/port/out"
	recordsin "cradle/internal/modules/records/port/in"
	settingsin "cradle/internal/modules/settings/port/in"
	apperrors "cradle/internal/platform/errors"
	"cradle/internal/platform/logger"
	"cradle/internal/platform/metrics"
)

type Syncer struct {
	session  cloudout.Session
	flags    cloudout.FlagStore
	records  recordsin.Reader
	settings settingsin.UserScoped
	api      cloudout.SyncAPI
	log      *logger.Logger

	// running keeps one bootstrap at a time. A session event raised by the
	// upload's own token refresh must not start a second one.
	running sync.Mutex
}

func NewSyncer(session cloudout.Session, flags cloudout.FlagStore, records recordsin.Reader, settings settingsin.UserScoped, api cloudout.SyncAPI, log *logger.Logger) *Syncer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Syncer{
		session:  session,
		flags:    flags,
		records:  records,
		settings: settings,
		api:      api,
		log:      log.With("component", "Syncer"),
	}
}

// Bootstrap uploads every record of the signed-in user in one call and then
// sets the user's flag. A set flag, a missing user or a missing token make it
// a no-op. On failure the flag stays unset so the next run uploads again.
func (s *Syncer) Bootstrap(ctx context.Context) (dto.BootstrapOutput, error) {
	if !s.running.TryLock() {
		return skipped("", dto.SkipBusy), nil
	}
	defer s.running.Unlock()

	user, ok := s.session.CurrentUser(ctx)
	if !ok || user.ID == "" {
		return skipped("", dto.SkipNoUser), nil
	}
	done, err := s.flags.Done(ctx, user.ID)
	if err != nil {
		return dto.BootstrapOutput{}, err
	}
	if done {
		return skipped(user.ID, dto.SkipDone), nil
	}
	if _, err := s.session.AccessToken(ctx); err != nil {
		if signedOut(err) {
			return skipped(user.ID, dto.SkipNoToken), nil
		}
		return dto.BootstrapOutput{}, err
	}

	snap, err := s.snapshot(ctx, user.ID)
	if err != nil {
		return dto.BootstrapOutput{}, err
	}
	uploadedAt, err := s.api.Bootstrap(ctx, snap)
	if err != nil {
		metrics.BootstrapUploadsTotal.WithLabelValues("failed").Inc()
		return dto.BootstrapOutput{}, fmt.Errorf("bootstrap upload: %w", err)
	}
	if err := s.flags.MarkDone(ctx, user.ID); err != nil {
		return dto.BootstrapOutput{}, err
	}
	metrics.BootstrapUploadsTotal.WithLabelValues("ok").Inc()
	counts := snap.Counts()
	s.log.Info("bootstrap uploaded", "user_id", user.ID, "sessions", counts.KickSessions, "feedings", counts.FeedingRecords, "uploaded_at", uploadedAt)
	return dto.BootstrapOutput{UserID: user.ID, Uploaded: true, UploadedAt: uploadedAt, Counts: counts}, nil
}

// BootstrapIfBound is Bootstrap gated on the session's invite binding.
func (s *Syncer) BootstrapIfBound(ctx context.Context) (dto.BootstrapOutput, error) {
	user, ok := s.session.CurrentUser(ctx)
	if !ok {
		return skipped("", dto.SkipNoUser), nil
	}
	if !user.InviteBound {
		return skipped(user.ID, dto.SkipNotBound), nil
	}
	return s.Bootstrap(ctx)
}

// Push uploads a fresh snapshot regardless of the bootstrap flag.
func (s *Syncer) Push(ctx context.Context) (dto.PushOutput, error) {
	user, ok := s.session.CurrentUser(ctx)
	if !ok {
		return dto.PushOutput{}, apperrors.ErrNotAuthenticated
	}
	snap, err := s.snapshot(ctx, user.ID)
	if err != nil {
		return dto.PushOutput{}, err
	}
	uploadedAt, err := s.api.Push(ctx, snap)
	if err != nil {
		return dto.PushOutput{}, err
	}
	return dto.PushOutput{UploadedAt: uploadedAt, Counts: snap.Counts()}, nil
}

// Pull fetches the newest uploaded snapshot. Nothing is written locally.
func (s *Syncer) Pull(ctx context.Context) (dto.PullOutput, error) {
	if _, ok := s.session.CurrentUser(ctx); !ok {
		return dto.PullOutput{}, apperrors.ErrNotAuthenticated
	}
	pulled, err := s.api.Pull(ctx)
	if err != nil {
		return dto.PullOutput{}, err
	}
	return dto.PullOutput{Found: pulled.Found, UploadedAt: pulled.UploadedAt, Snapshot: pulled.Snapshot}, nil
}

func (s *Syncer) snapshot(ctx context.Context, userID string) (domain.Snapshot, error) {
	export, err := s.records.ExportAll(ctx, userID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	us, err := s.settings.UserSettingsFor(ctx, userID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	settings := domain.PortableSettings{
		GoalCount:          us.GoalCount,
		MergeWindowMinutes: us.MergeWindowMinutes,
		DueDate:            us.DueDate,
	}
	return domain.NewSnapshot(settings, export), nil
}

func skipped(userID, reason string) dto.BootstrapOutput {
	metrics.BootstrapUploadsTotal.WithLabelValues("skipped").Inc()
	return dto.BootstrapOutput{UserID: userID, Skipped: reason}
}

func signedOut(err error) bool {
	return errors.Is(err, apperrors.ErrNotAuthenticated) || errors.Is(err, apperrors.ErrAuthExpired)
}
