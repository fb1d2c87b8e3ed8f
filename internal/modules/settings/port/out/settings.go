package out

import (
	"context"

	"cradle/internal/modules/settings/domain"
)

// SettingsStore loads and saves each persisted shape. Loads never fail on
// missing or undecodable data: they return the shape's default.
type SettingsStore interface {
	LoadUser(ctx context.Context, userID string) (domain.UserSettings, error)
	SaveUser(ctx context.Context, userID string, s domain.UserSettings) error
	LoadDevice(ctx context.Context) (domain.DeviceSettings, error)
	SaveDevice(ctx context.Context, s domain.DeviceSettings) error
	LoadReminderConfig(ctx context.Context, userID string) (domain.ReminderConfig, error)
	SaveReminderConfig(ctx context.Context, userID string, c domain.ReminderConfig) error
	LoadReminderState(ctx context.Context, userID string) (domain.ReminderRuntimeState, error)
	SaveReminderState(ctx context.Context, userID string, s domain.ReminderRuntimeState) error
	LoadToolUsage(ctx context.Context) (domain.ToolUsage, error)
	SaveToolUsage(ctx context.Context, u domain.ToolUsage) error
}

// KeyMigrator rewrites keys written by older releases. Each step runs at
// most once per device.
type KeyMigrator interface {
	MigrateLegacyKeys(ctx context.Context) ([]string, error)
}

type Identity interface {
	CurrentUserID(ctx context.Context) (string, bool)
}
