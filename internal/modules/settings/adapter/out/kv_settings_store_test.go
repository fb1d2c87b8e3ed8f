package out

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	authdto "cradle/internal/modules/auth/dto"
	"cradle/internal/modules/settings/domain"
	"cradle/internal/platform/kv"
	"cradle/internal/platform/sqlitedb"
)

func newKV(t *testing.T) kv.Store {
	t.Helper()
	db, err := sqlitedb.Open(context.Background(), filepath.Join(t.TempDir(), "cradle.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return kv.NewSQLiteStore(db)
}

func TestCorruptValuesDecodeToDefaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	raw := newKV(t)
	store := NewKVSettingsStore(raw)

	for _, key := range []string{userKey("u1"), reminderConfigKey("u1"), reminderStateKey("u1"), deviceKey, toolUsageKey} {
		if err := raw.Set(ctx, key, `{"goalCount": "many", `); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}
	user, err := store.LoadUser(ctx, "u1")
	if err != nil || user != domain.DefaultUserSettings() {
		t.Fatalf("user settings: %+v err=%v", user, err)
	}
	cfg, err := store.LoadReminderConfig(ctx, "u1")
	if err != nil || !reflect.DeepEqual(cfg, domain.DefaultReminderConfig()) {
		t.Fatalf("reminder config: %+v err=%v", cfg, err)
	}
	st, err := store.LoadReminderState(ctx, "u1")
	if err != nil || !reflect.DeepEqual(st, domain.DefaultReminderState()) {
		t.Fatalf("reminder state: %+v err=%v", st, err)
	}
	device, err := store.LoadDevice(ctx)
	if err != nil || device != domain.DefaultDeviceSettings() {
		t.Fatalf("device: %+v err=%v", device, err)
	}
	usage, err := store.LoadToolUsage(ctx)
	if err != nil || usage == nil || len(usage) != 0 {
		t.Fatalf("tool usage: %+v err=%v", usage, err)
	}
}

func TestPartialConfigKeepsDefaultsForMissingFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	raw := newKV(t)
	store := NewKVSettingsStore(raw)
	if err := raw.Set(ctx, reminderConfigKey("u1"), `{"kickCheckHour": 21, "unknownField": true}`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cfg, err := store.LoadReminderConfig(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.KickCheckHour != 21 || cfg.FeedingIntervalMinutes != 180 || !cfg.Enabled {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLegacyKeyStepsRunOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	raw := newKV(t)
	store := NewKVSettingsStore(raw)

	seed := map[string]string{
		legacySettingsKey:       `{"goalCount": 12, "mergeWindowMinutes": 3, "dueDate": "2026-08-01", "colorMode": "dark", "motionLevel": "reduced"}`,
		legacyReminderConfigKey: `{"kickCheckHour": 19}`,
		legacyReminderStateKey:  `{"lastKickNotifyDate": "2026-04-01"}`,
	}
	for k, v := range seed {
		if err := raw.Set(ctx, k, v); err != nil {
			t.Fatalf("seed %s: %v", k, err)
		}
	}

	ran, err := store.MigrateLegacyKeys(ctx)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !reflect.DeepEqual(ran, []string{"split-legacy-settings", "scope-legacy-reminder-keys"}) {
		t.Fatalf("unexpected steps: %v", ran)
	}

	device, err := store.LoadDevice(ctx)
	if err != nil || device.ColorMode != domain.ColorDark || device.MotionLevel != domain.MotionReduced {
		t.Fatalf("device: %+v err=%v", device, err)
	}
	guest, err := store.LoadUser(ctx, authdto.GuestUserID)
	if err != nil || guest.GoalCount != 12 || guest.MergeWindowMinutes != 3 || guest.DueDate != "2026-08-01" {
		t.Fatalf("guest settings: %+v err=%v", guest, err)
	}
	cfg, err := store.LoadReminderConfig(ctx, authdto.GuestUserID)
	if err != nil || cfg.KickCheckHour != 19 {
		t.Fatalf("guest reminder config: %+v err=%v", cfg, err)
	}
	st, err := store.LoadReminderState(ctx, authdto.GuestUserID)
	if err != nil || st.LastKickNotifyDate != "2026-04-01" {
		t.Fatalf("guest reminder state: %+v err=%v", st, err)
	}
	for k := range seed {
		if _, ok, err := raw.Get(ctx, k); err != nil || ok {
			t.Fatalf("legacy key %s should be gone: ok=%v err=%v", k, ok, err)
		}
	}

	// a stray legacy blob written later is left alone
	if err := raw.Set(ctx, legacySettingsKey, `{"goalCount": 40}`); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	ran, err = store.MigrateLegacyKeys(ctx)
	if err != nil || len(ran) != 0 {
		t.Fatalf("second run must be a no-op: %v err=%v", ran, err)
	}
	guest, _ = store.LoadUser(ctx, authdto.GuestUserID)
	if guest.GoalCount != 12 {
		t.Fatalf("guest settings overwritten: %+v", guest)
	}
}
