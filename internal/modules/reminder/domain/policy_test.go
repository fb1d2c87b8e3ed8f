package domain

import (
	"reflect"
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2026, 6, 1, h, m, 0, 0, time.UTC)
}

func TestIsWithinQuietHours(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name       string
		now        time.Time
		start, end string
		want       bool
	}{
		{"same day inside", at(9, 30), "08:00", "12:00", true},
		{"same day after", at(13, 0), "08:00", "12:00", false},
		{"same day end exclusive", at(12, 0), "08:00", "12:00", false},
		{"overnight late", at(23, 30), "22:00", "07:00", true},
		{"overnight early", at(6, 59), "22:00", "07:00", true},
		{"overnight afternoon", at(14, 0), "22:00", "07:00", false},
		{"empty window", at(10, 0), "10:00", "10:00", false},
		{"garbage", at(10, 0), "ten", "07:00", false},
	}
	for _, tc := range cases {
		if got := IsWithinQuietHours(tc.now, tc.start, tc.end); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestQuotaAllows(t *testing.T) {
	t.Parallel()
	now := at(12, 0).UnixMilli()
	minute := time.Minute.Milliseconds()
	sent := []int64{now - 10*minute, now - 50*minute}
	if QuotaAllows(sent, now, 2, 12) {
		t.Fatalf("third notification within the hour must be suppressed")
	}
	if !QuotaAllows(sent, now, 3, 12) {
		t.Fatalf("expected room under a higher hourly cap")
	}
	old := []int64{now - 2*60*minute, now - 3*60*minute, now - 25*60*minute}
	if !QuotaAllows(old, now, 1, 3) {
		t.Fatalf("entries older than 24h must not count")
	}
	if QuotaAllows(old, now, 5, 2) {
		t.Fatalf("daily cap must apply")
	}
	if got := PruneSent([]int64{now - 25*60*minute, now - minute, now - 2*minute}, now); !reflect.DeepEqual(got, []int64{now - 2*minute, now - minute}) {
		t.Fatalf("unexpected prune result: %v", got)
	}
}

func TestFeedingDueCooldown(t *testing.T) {
	t.Parallel()
	minute := time.Minute.Milliseconds()
	now := int64(1_000_000_000)
	last := now - 180*minute
	if !FeedingDue(now, last, nil, 180) {
		t.Fatalf("interval elapsed with no prior reminder should fire")
	}
	if FeedingDue(now, now-179*minute, nil, 180) {
		t.Fatalf("interval not yet elapsed")
	}
	recent := now - 161*minute
	if FeedingDue(now, last, &recent, 180) {
		t.Fatalf("reminder 161m ago is within the 0.9 cooldown")
	}
	older := now - 162*minute
	if !FeedingDue(now, last, &older, 180) {
		t.Fatalf("reminder 162m ago is past the 0.9 cooldown")
	}
}

func TestDueDateMath(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 6, 1, 21, 0, 0, 0, time.UTC)
	days, ok := DaysUntilDue(now, "2026-06-08")
	if !ok || days != 7 {
		t.Fatalf("expected 7 days, got %d ok=%v", days, ok)
	}
	week, ok := PregnancyWeek(now, "2026-06-08")
	if !ok || week != 39 {
		t.Fatalf("expected week 39, got %d", week)
	}
	if _, ok := DaysUntilDue(now, ""); ok {
		t.Fatalf("empty due date must not parse")
	}

	check := KickCheck{Now: now, DueDate: "2026-06-08", CheckHour: 20, MinCount: 10, TodayKicks: 4}
	if !check.Due() {
		t.Fatalf("expected kick check due")
	}
	check.ActiveSession = true
	if check.Due() {
		t.Fatalf("active session suppresses the check")
	}
	check.ActiveSession = false
	check.LastNotified = "2026-06-01"
	if check.Applies() {
		t.Fatalf("already notified today")
	}
	early := KickCheck{Now: now, DueDate: "2026-10-01", CheckHour: 20, MinCount: 10}
	if early.Applies() {
		t.Fatalf("week below 28 must not apply")
	}
}

func TestPushCappedKeepsNewest(t *testing.T) {
	t.Parallel()
	var tokens []string
	for i := 0; i < 12; i++ {
		tokens = PushCapped(tokens, MilestoneToken("2026-06-01", i), MilestoneCap)
	}
	if len(tokens) != MilestoneCap || tokens[0] != "2026-06-01:2" || tokens[9] != "2026-06-01:11" {
		t.Fatalf("unexpected tokens: %v", tokens)
	}
	if !IsPrenatalMilestone(14) || IsPrenatalMilestone(5) {
		t.Fatalf("milestone set mismatch")
	}
}

func TestKickCheckOncePerDay(t *testing.T) {
	t.Parallel()
	k := KickCheck{Now: at(20, 30), DueDate: "2026-07-01", CheckHour: 20, MinCount: 10, TodayKicks: 3}
	if !k.Due() {
		t.Fatalf("expected the evening check to be due")
	}
	k.LastNotified = "2026-05-31"
	if !k.Due() {
		t.Fatalf("yesterday's reminder must not block today's")
	}
	k.LastNotified = "2026-06-01"
	if k.Due() {
		t.Fatalf("already reminded today")
	}
	k.LastNotified, k.Now = "", at(19, 0)
	if k.Due() {
		t.Fatalf("before the check hour")
	}
}
