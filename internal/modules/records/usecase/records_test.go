package usecase_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	authdto "cradle/internal/modules/auth/dto"
	recordsout "cradle/internal/modules/records/adapter/out"
	"cradle/internal/modules/records/dto"
	"cradle/internal/modules/records/service"
	"cradle/internal/modules/records/usecase"
	"cradle/internal/platform/id"
	"cradle/internal/platform/logger"
	"cradle/internal/platform/sqlitedb"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type switchableIdentity struct{ uid string }

func (s *switchableIdentity) CurrentUserID(context.Context) (string, bool) {
	return s.uid, s.uid != ""
}

type prefs struct{}

func (prefs) GoalCount(context.Context, string) (int, error)          { return 10, nil }
func (prefs) MergeWindowMinutes(context.Context, string) (int, error) { return 5, nil }

func TestInteractorScopesByCurrentUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := sqlitedb.Open(ctx, filepath.Join(t.TempDir(), "cradle.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	clk := fixedClock{now: time.Date(2026, 5, 1, 20, 30, 0, 0, time.UTC)}
	who := &switchableIdentity{}
	svc := service.NewRecordService(clk, id.UUID{}, recordsout.NewSQLiteRecordStore(db), prefs{}, logger.NewNop())
	uc := usecase.NewInteractor(svc, who, prefs{}, clk)

	started, err := uc.StartKickSession(ctx)
	if err != nil {
		t.Fatalf("guest start: %v", err)
	}
	if started.Session.UserID != authdto.GuestUserID {
		t.Fatalf("expected guest scope, got %s", started.Session.UserID)
	}
	if _, err := uc.RecordKick(ctx); err != nil {
		t.Fatalf("guest tap: %v", err)
	}

	who.uid = "u-42"
	today, err := uc.TodayKicks(ctx)
	if err != nil {
		t.Fatalf("today kicks: %v", err)
	}
	if today.TotalKicks != 0 || today.Active != nil || today.GoalCount != 10 || today.Date != "2026-05-01" {
		t.Fatalf("signed-in user must not see guest data: %+v", today)
	}

	if _, err := uc.StartFeeding(ctx, dto.StartFeedingInput{Type: "Breast_Left"}); err != nil {
		t.Fatalf("start feeding: %v", err)
	}
	summary, err := uc.TodaySummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Feedings != 1 || summary.OpenFeeding == nil || summary.BagTotal == 0 || summary.BagChecked != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	total, err := uc.TodayKickTotal(ctx, authdto.GuestUserID)
	if err != nil || total != 1 {
		t.Fatalf("guest total: %d err=%v", total, err)
	}
	active, err := uc.HasActiveKickSession(ctx, "u-42")
	if err != nil || active {
		t.Fatalf("u-42 has no kick session: %v err=%v", active, err)
	}
}
