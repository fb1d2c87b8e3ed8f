package in

import (
	"context"

	"cradle/internal/modules/settings/dto"
)

// Usecase edits settings of the current scope: the signed-in user, or the
// guest. Updates receive the current value, may change it, and get it back
// clamped and persisted.
type Usecase interface {
	UserSettings(ctx context.Context) (dto.UserSettings, error)
	UpdateUserSettings(ctx context.Context, mutate func(*dto.UserSettings) error) (dto.UserSettings, error)
	DeviceSettings(ctx context.Context) (dto.DeviceSettings, error)
	UpdateDeviceSettings(ctx context.Context, mutate func(*dto.DeviceSettings) error) (dto.DeviceSettings, error)
	ReminderConfig(ctx context.Context) (dto.ReminderConfig, error)
	UpdateReminderConfig(ctx context.Context, mutate func(*dto.ReminderConfig) error) (dto.ReminderConfig, error)
	RecordToolOpen(ctx context.Context, toolID string) error
	RankedTools(ctx context.Context) ([]dto.RankedTool, error)
	MigrateLegacyKeys(ctx context.Context) ([]string, error)
}

// UserScoped reads and writes settings of an explicit user.
type UserScoped interface {
	UserSettingsFor(ctx context.Context, userID string) (dto.UserSettings, error)
	ReminderConfigFor(ctx context.Context, userID string) (dto.ReminderConfig, error)
	ReminderStateFor(ctx context.Context, userID string) (dto.ReminderRuntimeState, error)
	SaveReminderStateFor(ctx context.Context, userID string, state dto.ReminderRuntimeState) error
	GoalCount(ctx context.Context, userID string) (int, error)
	MergeWindowMinutes(ctx context.Context, userID string) (int, error)
}
