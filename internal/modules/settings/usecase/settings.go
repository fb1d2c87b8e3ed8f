package usecase

import (
	"context"

	authdto "cradle/internal/modules/auth/dto"
	"cradle/internal/modules/settings/dto"
	settingsin "cradle/internal/modules/settings/port/in"
	settingsout "cradle/internal/modules/settings/port/out"
	"cradle/internal/modules/settings/service"
	"cradle/internal/platform/logger"
)

type Interactor struct {
	svc      *service.SettingsService
	identity settingsout.Identity
	migrator settingsout.KeyMigrator
	log      *logger.Logger
}

func NewInteractor(svc *service.SettingsService, identity settingsout.Identity, migrator settingsout.KeyMigrator, log *logger.Logger) *Interactor {
	if log == nil {
		log = logger.NewNop()
	}
	return &Interactor{svc: svc, identity: identity, migrator: migrator, log: log}
}

var (
	_ settingsin.Usecase    = (*Interactor)(nil)
	_ settingsin.UserScoped = (*Interactor)(nil)
)

func (i *Interactor) scope(ctx context.Context) string {
	if i.identity != nil {
		if uid, ok := i.identity.CurrentUserID(ctx); ok && uid != "" {
			return uid
		}
	}
	return authdto.GuestUserID
}

func (i *Interactor) UserSettings(ctx context.Context) (dto.UserSettings, error) {
	return i.svc.UserSettings(ctx, i.scope(ctx))
}

func (i *Interactor) UpdateUserSettings(ctx context.Context, mutate func(*dto.UserSettings) error) (dto.UserSettings, error) {
	return i.svc.UpdateUserSettings(ctx, i.scope(ctx), mutate)
}

func (i *Interactor) DeviceSettings(ctx context.Context) (dto.DeviceSettings, error) {
	return i.svc.DeviceSettings(ctx)
}

func (i *Interactor) UpdateDeviceSettings(ctx context.Context, mutate func(*dto.DeviceSettings) error) (dto.DeviceSettings, error) {
	return i.svc.UpdateDeviceSettings(ctx, mutate)
}

func (i *Interactor) ReminderConfig(ctx context.Context) (dto.ReminderConfig, error) {
	return i.svc.ReminderConfig(ctx, i.scope(ctx))
}

func (i *Interactor) UpdateReminderConfig(ctx context.Context, mutate func(*dto.ReminderConfig) error) (dto.ReminderConfig, error) {
	return i.svc.UpdateReminderConfig(ctx, i.scope(ctx), mutate)
}

func (i *Interactor) RecordToolOpen(ctx context.Context, toolID string) error {
	return i.svc.RecordToolOpen(ctx, toolID)
}

func (i *Interactor) RankedTools(ctx context.Context) ([]dto.RankedTool, error) {
	return i.svc.RankedTools(ctx)
}

func (i *Interactor) MigrateLegacyKeys(ctx context.Context) ([]string, error) {
	if i.migrator == nil {
		return nil, nil
	}
	ran, err := i.migrator.MigrateLegacyKeys(ctx)
	if len(ran) > 0 {
		i.log.Info("migrated legacy settings keys", "steps", ran)
	}
	return ran, err
}

func (i *Interactor) UserSettingsFor(ctx context.Context, userID string) (dto.UserSettings, error) {
	return i.svc.UserSettings(ctx, userID)
}

func (i *Interactor) ReminderConfigFor(ctx context.Context, userID string) (dto.ReminderConfig, error) {
	return i.svc.ReminderConfig(ctx, userID)
}

func (i *Interactor) ReminderStateFor(ctx context.Context, userID string) (dto.ReminderRuntimeState, error) {
	return i.svc.ReminderState(ctx, userID)
}

func (i *Interactor) SaveReminderStateFor(ctx context.Context, userID string, state dto.ReminderRuntimeState) error {
	return i.svc.SaveReminderState(ctx, userID, state)
}

func (i *Interactor) GoalCount(ctx context.Context, userID string) (int, error) {
	s, err := i.svc.UserSettings(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.GoalCount, nil
}

func (i *Interactor) MergeWindowMinutes(ctx context.Context, userID string) (int, error) {
	s, err := i.svc.UserSettings(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.MergeWindowMinutes, nil
}
