package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	recordsin "cradle/internal/modules/records/port/in"
	"cradle/internal/modules/reminder/domain"
	"cradle/internal/modules/reminder/dto"
	reminderout "cradle/internal/modules/reminder/port/out"
	settingsdto "cradle/internal/modules/settings/dto"
	settingsin "cradle/internal/modules/settings/port/in"
	"cradle/internal/platform/clock"
	"cradle/internal/platform/logger"
	"cradle/internal/platform/metrics"
)

const DefaultInterval = 60 * time.Second

// Tick skip reasons.
const (
	SkipBusy         = "busy"
	SkipNoUser       = "no_user"
	SkipNoPermission = "no_permission"
	SkipDisabled     = "disabled"
	SkipQuietHours   = "quiet_hours"
)

// Engine evaluates reminder categories for the current user on a fixed
// period. Ticks never overlap and their errors never escape the loop.
type Engine struct {
	clock    clock.Clock
	identity reminderout.Identity
	settings settingsin.UserScoped
	records  recordsin.Reader
	notifier reminderout.Notifier
	interval time.Duration
	log      *logger.Logger

	ticking sync.Mutex

	mu         sync.Mutex
	running    bool
	ticks      int64
	last       *dto.TickReport
	lastErr    string
	permission domain.Permission
}

func NewEngine(
	clock clock.Clock,
	identity reminderout.Identity,
	settings settingsin.UserScoped,
	records recordsin.Reader,
	notifier reminderout.Notifier,
	interval time.Duration,
	log *logger.Logger,
) *Engine {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{
		clock:    clock,
		identity: identity,
		settings: settings,
		records:  records,
		notifier: notifier,
		interval: interval,
		log:      log,
	}
}

// Start ticks once right away and then every interval. The returned stop
// cancels the loop and blocks until it has exited, so no tick writes state
// after stop returns.
func (e *Engine) Start(ctx context.Context) func() {
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	e.setRunning(true)

	go func() {
		defer close(done)
		defer e.setRunning(false)
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()

		e.runTick(runCtx)
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				e.runTick(runCtx)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}

func (e *Engine) runTick(ctx context.Context) {
	if _, err := e.Tick(ctx); err != nil && ctx.Err() == nil {
		e.log.Warn("reminder tick failed", "error", err)
	}
}

// Tick runs one evaluation pass. A pass that finds another one in flight
// returns immediately with Skipped == "busy".
func (e *Engine) Tick(ctx context.Context) (dto.TickReport, error) {
	if !e.ticking.TryLock() {
		metrics.ReminderTicksTotal.WithLabelValues(SkipBusy).Inc()
		return dto.TickReport{At: e.clock.Now(), Skipped: SkipBusy}, nil
	}
	defer e.ticking.Unlock()

	report, err := e.tick(ctx)
	e.finish(report, err)
	return report, err
}

func (e *Engine) finish(report dto.TickReport, err error) {
	result := "idle"
	switch {
	case err != nil:
		result = "error"
	case report.Skipped != "":
		result = report.Skipped
	case len(report.Sent) > 0:
		result = "sent"
	}
	metrics.ReminderTicksTotal.WithLabelValues(result).Inc()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.ticks++
	e.last = &report
	e.lastErr = ""
	if err != nil {
		e.lastErr = err.Error()
	}
}

type candidate struct {
	category settingsdto.Category
	note     domain.Notification
	apply    func(*settingsdto.ReminderRuntimeState)
}

func (e *Engine) tick(ctx context.Context) (dto.TickReport, error) {
	now := e.clock.Now()
	report := dto.TickReport{At: now, Sent: []string{}, Suppressed: []dto.Suppressed{}}

	uid, ok := e.identity.CurrentUserID(ctx)
	if !ok || uid == "" {
		report.Skipped = SkipNoUser
		return report, nil
	}
	report.UserID = uid

	perm, err := e.notifier.Permission(ctx)
	if err != nil {
		return report, fmt.Errorf("notification permission: %w", err)
	}
	e.setPermission(perm)
	if perm != domain.PermissionGranted {
		report.Skipped = SkipNoPermission
		return report, nil
	}

	cfg, err := e.settings.ReminderConfigFor(ctx, uid)
	if err != nil {
		return report, err
	}
	if !cfg.Enabled {
		report.Skipped = SkipDisabled
		return report, nil
	}

	quiet := cfg.QuietHoursEnabled && domain.IsWithinQuietHours(now, cfg.QuietStart, cfg.QuietEnd)
	report.QuietHours = quiet
	if quiet && cfg.QuietMode == settingsdto.QuietMuteAll {
		report.Skipped = SkipQuietHours
		return report, nil
	}

	state, err := e.settings.ReminderStateFor(ctx, uid)
	if err != nil {
		return report, err
	}
	nowMs := now.UnixMilli()
	state.SentAt = domain.PruneSent(state.SentAt, nowMs)

	candidates, err := e.evaluate(ctx, uid, now, cfg, state)
	if err != nil {
		return report, err
	}

	for _, c := range candidates {
		cat := string(c.category)
		if quiet && !cfg.IsPriority(c.category) {
			e.suppress(&report, cat, "quiet")
			continue
		}
		if !domain.QuotaAllows(state.SentAt, nowMs, cfg.MaxPerHour, cfg.MaxPerDay) {
			e.suppress(&report, cat, "quota")
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		note := c.note
		note.Silent = quiet
		if err := e.notifier.Notify(ctx, note); err != nil {
			e.log.Warn("deliver reminder", "category", cat, "error", err)
			e.suppress(&report, cat, "failed")
			continue
		}
		c.apply(&state)
		state.SentAt = append(state.SentAt, nowMs)
		if err := e.settings.SaveReminderStateFor(ctx, uid, state); err != nil {
			return report, err
		}
		metrics.ReminderNotificationsTotal.WithLabelValues(cat, "sent").Inc()
		report.Sent = append(report.Sent, cat)
		e.log.Info("reminder sent", "category", cat, "silent", note.Silent, "user_id", uid)
	}
	return report, nil
}

func (e *Engine) suppress(report *dto.TickReport, category, reason string) {
	metrics.ReminderNotificationsTotal.WithLabelValues(category, reason).Inc()
	report.Suppressed = append(report.Suppressed, dto.Suppressed{Category: category, Reason: reason})
}

// evaluate returns the categories due now, in feeding, kick, prenatal order.
func (e *Engine) evaluate(ctx context.Context, uid string, now time.Time, cfg settingsdto.ReminderConfig, state settingsdto.ReminderRuntimeState) ([]candidate, error) {
	var out []candidate
	nowMs := now.UnixMilli()

	if cfg.FeedingEnabled {
		last, err := e.records.LastFeedingFor(ctx, uid)
		if err != nil {
			return nil, err
		}
		if last.Found && domain.FeedingDue(nowMs, last.Record.StartedAt, state.LastFeedNotifyAt, cfg.FeedingIntervalMinutes) {
			since := time.Duration(nowMs-last.Record.StartedAt) * time.Millisecond
			out = append(out, candidate{
				category: settingsdto.CategoryFeeding,
				note:     domain.FeedingNotification(since),
				apply: func(st *settingsdto.ReminderRuntimeState) {
					at := nowMs
					st.LastFeedNotifyAt = &at
				},
			})
		}
	}

	if !cfg.KickEnabled && !cfg.PrenatalEnabled {
		return out, nil
	}
	user, err := e.settings.UserSettingsFor(ctx, uid)
	if err != nil {
		return nil, err
	}
	today := clock.DateKey(now)

	if cfg.KickEnabled {
		check := domain.KickCheck{
			Now:          now,
			DueDate:      user.DueDate,
			CheckHour:    cfg.KickCheckHour,
			MinCount:     cfg.KickMinCount,
			LastNotified: state.LastKickNotifyDate,
		}
		if check.Applies() {
			if check.TodayKicks, err = e.records.TodayKickTotal(ctx, uid); err != nil {
				return nil, err
			}
			if check.ActiveSession, err = e.records.HasActiveKickSession(ctx, uid); err != nil {
				return nil, err
			}
			if check.Due() {
				out = append(out, candidate{
					category: settingsdto.CategoryKick,
					note:     domain.KickNotification(check.TodayKicks, check.MinCount),
					apply: func(st *settingsdto.ReminderRuntimeState) {
						st.LastKickNotifyDate = today
					},
				})
			}
		}
	}

	if cfg.PrenatalEnabled {
		if days, ok := domain.DaysUntilDue(now, user.DueDate); ok && domain.IsPrenatalMilestone(days) {
			token := domain.MilestoneToken(today, days)
			if !domain.ContainsToken(state.PrenatalMilestones, token) {
				out = append(out, candidate{
					category: settingsdto.CategoryPrenatal,
					note:     domain.PrenatalNotification(days),
					apply: func(st *settingsdto.ReminderRuntimeState) {
						st.PrenatalMilestones = domain.PushCapped(st.PrenatalMilestones, token, domain.MilestoneCap)
					},
				})
			}
		}
	}
	return out, nil
}

func (e *Engine) setRunning(v bool) {
	e.mu.Lock()
	e.running = v
	e.mu.Unlock()
}

func (e *Engine) setPermission(p domain.Permission) {
	e.mu.Lock()
	e.permission = p
	e.mu.Unlock()
}

func (e *Engine) Status(ctx context.Context) dto.EngineStatus {
	_, signedIn := e.identity.CurrentUserID(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()
	out := dto.EngineStatus{
		Running:    e.running,
		Interval:   e.interval,
		Ticks:      e.ticks,
		LastError:  e.lastErr,
		SignedIn:   signedIn,
		Permission: string(e.permission),
	}
	if e.last != nil {
		last := *e.last
		out.LastTick = &last
	}
	return out
}
