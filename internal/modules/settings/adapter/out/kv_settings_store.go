package out

import (
	"context"

	"cradle/internal/modules/settings/domain"
	settingsout "cradle/internal/modules/settings/port/out"
	"cradle/internal/platform/kv"
)

const (
	deviceKey    = "settings:device"
	toolUsageKey = "tool_usage"
)

func userKey(userID string) string           { return "settings:user:" + userID }
func reminderConfigKey(userID string) string { return "reminder:config:" + userID }
func reminderStateKey(userID string) string  { return "reminder:state:" + userID }

type KVSettingsStore struct {
	kv kv.Store
}

func NewKVSettingsStore(store kv.Store) *KVSettingsStore {
	return &KVSettingsStore{kv: store}
}

var (
	_ settingsout.SettingsStore = (*KVSettingsStore)(nil)
	_ settingsout.KeyMigrator   = (*KVSettingsStore)(nil)
)

func (s *KVSettingsStore) LoadUser(ctx context.Context, userID string) (domain.UserSettings, error) {
	v, _, err := kv.LoadJSON(ctx, s.kv, userKey(userID), domain.DefaultUserSettings())
	if err != nil {
		return domain.DefaultUserSettings(), err
	}
	return v.Normalize(), nil
}

func (s *KVSettingsStore) SaveUser(ctx context.Context, userID string, v domain.UserSettings) error {
	return kv.SaveJSON(ctx, s.kv, userKey(userID), v)
}

func (s *KVSettingsStore) LoadDevice(ctx context.Context) (domain.DeviceSettings, error) {
	v, _, err := kv.LoadJSON(ctx, s.kv, deviceKey, domain.DefaultDeviceSettings())
	if err != nil {
		return domain.DefaultDeviceSettings(), err
	}
	return v.Normalize(), nil
}

func (s *KVSettingsStore) SaveDevice(ctx context.Context, v domain.DeviceSettings) error {
	return kv.SaveJSON(ctx, s.kv, deviceKey, v)
}

func (s *KVSettingsStore) LoadReminderConfig(ctx context.Context, userID string) (domain.ReminderConfig, error) {
	v, _, err := kv.LoadJSON(ctx, s.kv, reminderConfigKey(userID), domain.DefaultReminderConfig())
	if err != nil {
		return domain.DefaultReminderConfig(), err
	}
	return v.Normalize(), nil
}

func (s *KVSettingsStore) SaveReminderConfig(ctx context.Context, userID string, v domain.ReminderConfig) error {
	return kv.SaveJSON(ctx, s.kv, reminderConfigKey(userID), v)
}

func (s *KVSettingsStore) LoadReminderState(ctx context.Context, userID string) (domain.ReminderRuntimeState, error) {
	v, _, err := kv.LoadJSON(ctx, s.kv, reminderStateKey(userID), domain.DefaultReminderState())
	if err != nil {
		return domain.DefaultReminderState(), err
	}
	return v.Normalize(), nil
}

func (s *KVSettingsStore) SaveReminderState(ctx context.Context, userID string, v domain.ReminderRuntimeState) error {
	return kv.SaveJSON(ctx, s.kv, reminderStateKey(userID), v.Normalize())
}

func (s *KVSettingsStore) LoadToolUsage(ctx context.Context) (domain.ToolUsage, error) {
	v, _, err := kv.LoadJSON[domain.ToolUsage](ctx, s.kv, toolUsageKey, nil)
	if err != nil || v == nil {
		return domain.ToolUsage{}, err
	}
	return v, nil
}

func (s *KVSettingsStore) SaveToolUsage(ctx context.Context, u domain.ToolUsage) error {
	return kv.SaveJSON(ctx, s.kv, toolUsageKey, u)
}
