package service

import (
	"context"
	"fmt"
	"strings"

	"cradle/internal/modules/settings/domain"
	settingsout "cradle/internal/modules/settings/port/out"
	"cradle/internal/platform/clock"
	apperrors "cradle/internal/platform/errors"
	"cradle/internal/platform/logger"
)

type SettingsService struct {
	clock clock.Clock
	store settingsout.SettingsStore
	log   *logger.Logger
}

func NewSettingsService(clock clock.Clock, store settingsout.SettingsStore, log *logger.Logger) *SettingsService {
	if log == nil {
		log = logger.NewNop()
	}
	return &SettingsService{clock: clock, store: store, log: log}
}

func (s *SettingsService) UserSettings(ctx context.Context, userID string) (domain.UserSettings, error) {
	return s.store.LoadUser(ctx, userID)
}

func (s *SettingsService) UpdateUserSettings(ctx context.Context, userID string, mutate func(*domain.UserSettings) error) (domain.UserSettings, error) {
	cur, err := s.store.LoadUser(ctx, userID)
	if err != nil {
		return domain.UserSettings{}, err
	}
	if err := mutate(&cur); err != nil {
		return domain.UserSettings{}, err
	}
	next := cur.Normalize()
	if err := s.store.SaveUser(ctx, userID, next); err != nil {
		return domain.UserSettings{}, err
	}
	return next, nil
}

func (s *SettingsService) DeviceSettings(ctx context.Context) (domain.DeviceSettings, error) {
	return s.store.LoadDevice(ctx)
}

func (s *SettingsService) UpdateDeviceSettings(ctx context.Context, mutate func(*domain.DeviceSettings) error) (domain.DeviceSettings, error) {
	cur, err := s.store.LoadDevice(ctx)
	if err != nil {
		return domain.DeviceSettings{}, err
	}
	if err := mutate(&cur); err != nil {
		return domain.DeviceSettings{}, err
	}
	next := cur.Normalize()
	if err := s.store.SaveDevice(ctx, next); err != nil {
		return domain.DeviceSettings{}, err
	}
	return next, nil
}

func (s *SettingsService) ReminderConfig(ctx context.Context, userID string) (domain.ReminderConfig, error) {
	return s.store.LoadReminderConfig(ctx, userID)
}

// UpdateReminderConfig clamps before persisting; out-of-range input is
// corrected, not rejected.
func (s *SettingsService) UpdateReminderConfig(ctx context.Context, userID string, mutate func(*domain.ReminderConfig) error) (domain.ReminderConfig, error) {
	cur, err := s.store.LoadReminderConfig(ctx, userID)
	if err != nil {
		return domain.ReminderConfig{}, err
	}
	if err := mutate(&cur); err != nil {
		return domain.ReminderConfig{}, err
	}
	next := cur.Normalize()
	if err := s.store.SaveReminderConfig(ctx, userID, next); err != nil {
		return domain.ReminderConfig{}, err
	}
	return next, nil
}

func (s *SettingsService) ReminderState(ctx context.Context, userID string) (domain.ReminderRuntimeState, error) {
	return s.store.LoadReminderState(ctx, userID)
}

func (s *SettingsService) SaveReminderState(ctx context.Context, userID string, st domain.ReminderRuntimeState) error {
	return s.store.SaveReminderState(ctx, userID, st)
}

func (s *SettingsService) RecordToolOpen(ctx context.Context, toolID string) error {
	toolID = strings.TrimSpace(toolID)
	if toolID == "" {
		return fmt.Errorf("%w: tool id is required", apperrors.ErrInvalidInput)
	}
	usage, err := s.store.LoadToolUsage(ctx)
	if err != nil {
		return err
	}
	st := usage[toolID]
	st.Count++
	st.LastOpenedAt = s.clock.Now().UnixMilli()
	usage[toolID] = st
	return s.store.SaveToolUsage(ctx, usage)
}

func (s *SettingsService) RankedTools(ctx context.Context) ([]domain.RankedTool, error) {
	usage, err := s.store.LoadToolUsage(ctx)
	if err != nil {
		return nil, err
	}
	return usage.Ranked(), nil
}
