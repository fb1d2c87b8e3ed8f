package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	recordsdto "cradle/internal/modules/records/dto"
	"cradle/internal/modules/reminder/domain"
	"cradle/internal/modules/reminder/service"
	settingsdto "cradle/internal/modules/settings/dto"
	"cradle/internal/platform/logger"
)

type mutableClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *mutableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mutableClock) set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type identity struct{ uid string }

func (i identity) CurrentUserID(context.Context) (string, bool) { return i.uid, i.uid != "" }

type fakeSettings struct {
	mu      sync.Mutex
	cfg     settingsdto.ReminderConfig
	user    settingsdto.UserSettings
	state   settingsdto.ReminderRuntimeState
	reads   int
	saves   int
	block   chan struct{}
	entered chan struct{}
	once    sync.Once
}

func (f *fakeSettings) UserSettingsFor(context.Context, string) (settingsdto.UserSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.user, nil
}

func (f *fakeSettings) ReminderConfigFor(context.Context, string) (settingsdto.ReminderConfig, error) {
	if f.block != nil {
		f.once.Do(func() { close(f.entered) })
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.cfg, nil
}

func (f *fakeSettings) ReminderStateFor(context.Context, string) (settingsdto.ReminderRuntimeState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.state, nil
}

func (f *fakeSettings) SaveReminderStateFor(_ context.Context, _ string, st settingsdto.ReminderRuntimeState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	f.state = st
	return nil
}

func (f *fakeSettings) GoalCount(context.Context, string) (int, error)          { return 10, nil }
func (f *fakeSettings) MergeWindowMinutes(context.Context, string) (int, error) { return 5, nil }

type fakeRecords struct {
	mu        sync.Mutex
	lastFeed  *recordsdto.FeedingRecord
	kicks     int
	active    bool
	readCount int
}

func (f *fakeRecords) ExportAll(context.Context, string) (recordsdto.Export, error) {
	return recordsdto.Export{}, nil
}

func (f *fakeRecords) LastFeedingFor(context.Context, string) (recordsdto.LastFeedingOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readCount++
	if f.lastFeed == nil {
		return recordsdto.LastFeedingOutput{}, nil
	}
	return recordsdto.LastFeedingOutput{Record: *f.lastFeed, Found: true}, nil
}

func (f *fakeRecords) TodayKickTotal(context.Context, string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readCount++
	return f.kicks, nil
}

func (f *fakeRecords) HasActiveKickSession(context.Context, string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readCount++
	return f.active, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	granted bool
	sent    []domain.Notification
}

func (f *fakeNotifier) Permission(context.Context) (domain.Permission, error) {
	if f.granted {
		return domain.PermissionGranted, nil
	}
	return domain.PermissionDenied, nil
}

func (f *fakeNotifier) Notify(_ context.Context, n domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type harness struct {
	clock    *mutableClock
	settings *fakeSettings
	records  *fakeRecords
	notifier *fakeNotifier
	engine   *service.Engine
}

func newHarness(uid string) *harness {
	h := &harness{
		clock: &mutableClock{now: time.Date(2026, 6, 1, 21, 0, 0, 0, time.UTC)},
		settings: &fakeSettings{
			cfg:   settingsdto.DefaultReminderConfig(),
			user:  settingsdto.UserSettings{GoalCount: 10, MergeWindowMinutes: 5, DueDate: "2026-06-08"},
			state: settingsdto.ReminderRuntimeState{PrenatalMilestones: []string{}, SentAt: []int64{}},
		},
		records:  &fakeRecords{},
		notifier: &fakeNotifier{granted: true},
	}
	h.engine = service.NewEngine(h.clock, identity{uid: uid}, h.settings, h.records, h.notifier, time.Hour, logger.NewNop())
	return h
}

func TestTickFiresEveryDueCategoryOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness("u1")
	feed := recordsdto.FeedingRecord{ID: "f", UserID: "u1", StartedAt: h.clock.Now().Add(-4 * time.Hour).UnixMilli()}
	h.records.lastFeed = &feed
	h.records.kicks = 3

	report, err := h.engine.Tick(ctx)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if len(report.Sent) != 3 || report.Sent[0] != "feeding" || report.Sent[1] != "kick" || report.Sent[2] != "prenatal" {
		t.Fatalf("unexpected sent list: %+v", report)
	}
	st := h.settings.state
	if st.LastFeedNotifyAt == nil || st.LastKickNotifyDate != "2026-06-01" || len(st.PrenatalMilestones) != 1 || st.PrenatalMilestones[0] != "2026-06-01:7" || len(st.SentAt) != 3 {
		t.Fatalf("runtime state not updated: %+v", st)
	}

	h.clock.set(h.clock.Now().Add(2 * time.Minute))
	report, err = h.engine.Tick(ctx)
	if err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if len(report.Sent) != 0 || h.notifier.count() != 3 {
		t.Fatalf("nothing may re-fire: %+v", report)
	}
}

func TestQuotaSuppressesRegardlessOfCategory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness("u1")
	now := h.clock.Now().UnixMilli()
	h.settings.cfg.MaxPerHour = 2
	h.settings.state.SentAt = []int64{now - 5*60*1000, now - 20*60*1000}
	feed := recordsdto.FeedingRecord{ID: "f", UserID: "u1", StartedAt: now - 4*60*60*1000}
	h.records.lastFeed = &feed

	report, err := h.engine.Tick(ctx)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if len(report.Sent) != 0 || h.notifier.count() != 0 {
		t.Fatalf("quota exhausted, nothing may be sent: %+v", report)
	}
	for _, s := range report.Suppressed {
		if s.Reason != "quota" {
			t.Fatalf("unexpected suppression: %+v", s)
		}
	}
	if len(report.Suppressed) != 3 {
		t.Fatalf("expected feeding, kick and prenatal suppressed, got %+v", report.Suppressed)
	}
}

func TestNoPermissionOrDisabledReadsNoRecords(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	h := newHarness("u1")
	h.notifier.granted = false
	report, err := h.engine.Tick(ctx)
	if err != nil || report.Skipped != service.SkipNoPermission {
		t.Fatalf("expected permission skip: %+v err=%v", report, err)
	}
	if h.settings.reads != 0 || h.records.readCount != 0 {
		t.Fatalf("no storage reads allowed without permission: settings=%d records=%d", h.settings.reads, h.records.readCount)
	}

	h = newHarness("u1")
	h.settings.cfg.Enabled = false
	report, err = h.engine.Tick(ctx)
	if err != nil || report.Skipped != service.SkipDisabled {
		t.Fatalf("expected disabled skip: %+v err=%v", report, err)
	}
	if h.records.readCount != 0 || h.settings.saves != 0 {
		t.Fatalf("disabled tick touched records: %d", h.records.readCount)
	}

	h = newHarness("")
	report, err = h.engine.Tick(ctx)
	if err != nil || report.Skipped != service.SkipNoUser {
		t.Fatalf("expected no-user skip: %+v err=%v", report, err)
	}
}

func TestQuietHoursModes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	h := newHarness("u1")
	h.settings.cfg.QuietHoursEnabled = true
	h.settings.cfg.QuietStart = "20:00"
	h.settings.cfg.QuietEnd = "07:00"
	h.settings.cfg.QuietMode = settingsdto.QuietMuteAll
	report, err := h.engine.Tick(ctx)
	if err != nil || report.Skipped != service.SkipQuietHours {
		t.Fatalf("mute_all must skip the tick: %+v err=%v", report, err)
	}

	h.settings.cfg.QuietMode = settingsdto.QuietPriorityOnly
	h.records.kicks = 0
	report, err = h.engine.Tick(ctx)
	if err != nil {
		t.Fatalf("priority tick: %v", err)
	}
	if len(report.Sent) != 1 || report.Sent[0] != "kick" {
		t.Fatalf("only the priority kick check may fire: %+v", report)
	}
	if len(report.Suppressed) != 1 || report.Suppressed[0].Category != "prenatal" || report.Suppressed[0].Reason != "quiet" {
		t.Fatalf("prenatal should be held back by quiet hours: %+v", report.Suppressed)
	}
	if !h.notifier.sent[0].Silent {
		t.Fatalf("quiet-hours delivery must be silent")
	}
}

func TestTicksDoNotOverlapAndStopWaits(t *testing.T) {
	t.Parallel()
	h := newHarness("u1")
	h.settings.block = make(chan struct{})
	h.settings.entered = make(chan struct{})

	stop := h.engine.Start(context.Background())
	select {
	case <-h.settings.entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("first tick never started")
	}
	report, err := h.engine.Tick(context.Background())
	if err != nil || report.Skipped != service.SkipBusy {
		t.Fatalf("expected overlapping tick to be skipped: %+v err=%v", report, err)
	}

	close(h.settings.block)
	stop()
	if h.engine.Status(context.Background()).Running {
		t.Fatalf("engine still running after stop")
	}
	h.settings.mu.Lock()
	saves := h.settings.saves
	h.settings.mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	h.settings.mu.Lock()
	defer h.settings.mu.Unlock()
	if h.settings.saves != saves {
		t.Fatalf("state mutated after stop")
	}
	stop()
}
