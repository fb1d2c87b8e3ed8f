package usecase_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	settingsin "cradle/internal/modules/settings/adapter/in"
	settingsout "cradle/internal/modules/settings/adapter/out"
	"cradle/internal/modules/settings/service"
	"cradle/internal/modules/settings/usecase"
	"cradle/internal/platform/kv"
	"cradle/internal/platform/logger"
	"cradle/internal/platform/sqlitedb"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type identity struct{ uid string }

func (i identity) CurrentUserID(context.Context) (string, bool) { return i.uid, i.uid != "" }

func newInteractor(t *testing.T, uid string) *usecase.Interactor {
	t.Helper()
	db, err := sqlitedb.Open(context.Background(), filepath.Join(t.TempDir(), "cradle.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store := settingsout.NewKVSettingsStore(kv.NewSQLiteStore(db))
	svc := service.NewSettingsService(fixedClock{now: time.UnixMilli(1_700_000_000_000)}, store, logger.NewNop())
	return usecase.NewInteractor(svc, identity{uid: uid}, store, logger.NewNop())
}

func TestReminderConfigClampRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := newInteractor(t, "u1")
	cli := settingsin.NewCLIHandler(uc)

	if _, err := cli.SetReminder(ctx, "feedingIntervalMinutes", "999"); err != nil {
		t.Fatalf("set interval: %v", err)
	}
	if _, err := cli.SetReminder(ctx, "kick_check_hour", "2"); err != nil {
		t.Fatalf("set check hour: %v", err)
	}
	cfg, err := uc.ReminderConfigFor(ctx, "u1")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if cfg.FeedingIntervalMinutes != 480 || cfg.KickCheckHour != 17 {
		t.Fatalf("expected clamped 480/17, got %d/%d", cfg.FeedingIntervalMinutes, cfg.KickCheckHour)
	}
	if _, err := cli.SetReminder(ctx, "maxPerHour", "lots"); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := cli.SetReminder(ctx, "volume", "11"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestUserSettingsAreScopedDeviceSettingsAreShared(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := newInteractor(t, "u1")
	cli := settingsin.NewCLIHandler(uc)

	if _, err := cli.SetUser(ctx, "goal", "15"); err != nil {
		t.Fatalf("set goal: %v", err)
	}
	if _, err := cli.SetDevice(ctx, "color-mode", "Dark"); err != nil {
		t.Fatalf("set color: %v", err)
	}
	goal, err := uc.GoalCount(ctx, "u1")
	if err != nil || goal != 15 {
		t.Fatalf("u1 goal: %d err=%v", goal, err)
	}
	other, err := uc.GoalCount(ctx, "u2")
	if err != nil || other != 10 {
		t.Fatalf("u2 must keep default goal: %d err=%v", other, err)
	}
	_, device, err := cli.Show(ctx)
	if err != nil || device.ColorMode != "dark" {
		t.Fatalf("device: %+v err=%v", device, err)
	}

	for _, tool := range []string{"kick", "feed", "kick"} {
		if err := cli.RecordToolOpen(ctx, tool); err != nil {
			t.Fatalf("record tool: %v", err)
		}
	}
	ranked, err := cli.RankedTools(ctx)
	if err != nil || len(ranked) != 2 || ranked[0].ID != "kick" || ranked[0].Count != 2 {
		t.Fatalf("ranked tools: %+v err=%v", ranked, err)
	}
}
