package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"cradle/internal/platform/clock"
)

const (
	MilestoneCap       = 10
	KickCheckFromWeek  = 28
	gestationDays      = 280
	feedCooldownFactor = 0.9
	sentRetention      = 24 * time.Hour
)

// PrenatalMilestones are the days-until-due values that trigger a countdown
// notification.
var PrenatalMilestones = []int{14, 7, 3, 1}

// ParseClock reads "HH:MM" as minutes after midnight.
func ParseClock(v string) (int, bool) {
	h, m, ok := strings.Cut(strings.TrimSpace(v), ":")
	if !ok {
		return 0, false
	}
	hh, err := strconv.Atoi(h)
	if err != nil || hh < 0 || hh > 23 {
		return 0, false
	}
	mm, err := strconv.Atoi(m)
	if err != nil || mm < 0 || mm > 59 {
		return 0, false
	}
	return hh*60 + mm, true
}

// IsWithinQuietHours treats start < end as a same-day window [start, end)
// and start > end as an overnight window. Equal or unparsable bounds mean no
// window.
func IsWithinQuietHours(now time.Time, start, end string) bool {
	s, ok := ParseClock(start)
	if !ok {
		return false
	}
	e, ok := ParseClock(end)
	if !ok || s == e {
		return false
	}
	cur := now.Hour()*60 + now.Minute()
	if s < e {
		return cur >= s && cur < e
	}
	return cur >= s || cur < e
}

// QuotaAllows reports whether one more notification fits both rolling
// windows. sent holds delivery timestamps of every category.
func QuotaAllows(sent []int64, now int64, perHour, perDay int) bool {
	hourAgo := now - time.Hour.Milliseconds()
	dayAgo := now - sentRetention.Milliseconds()
	var inHour, inDay int
	for _, ts := range sent {
		if ts > now {
			continue
		}
		if ts > dayAgo {
			inDay++
		}
		if ts > hourAgo {
			inHour++
		}
	}
	return inHour < perHour && inDay < perDay
}

// PruneSent keeps the timestamps still relevant to the daily quota, oldest
// first.
func PruneSent(sent []int64, now int64) []int64 {
	cutoff := now - sentRetention.Milliseconds()
	out := make([]int64, 0, len(sent))
	for _, ts := range sent {
		if ts > cutoff {
			out = append(out, ts)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DaysUntilDue counts calendar days from now's local date to due
// ("YYYY-MM-DD"). Negative once the date has passed.
func DaysUntilDue(now time.Time, due string) (int, bool) {
	d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(due), now.Location())
	if err != nil {
		return 0, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// round to absorb 23h/25h DST days
	return int((d.Sub(today).Hours() + 12) / 24), true
}

// PregnancyWeek derives the completed gestational week from the due date,
// assuming a 280-day pregnancy.
func PregnancyWeek(now time.Time, due string) (int, bool) {
	days, ok := DaysUntilDue(now, due)
	if !ok {
		return 0, false
	}
	elapsed := gestationDays - days
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed / 7, true
}

// FeedingDue: an interval has passed since the last feed started and the
// previous reminder is at least 0.9 intervals old.
func FeedingDue(now int64, lastFeedStartedAt int64, lastNotifyAt *int64, intervalMinutes int) bool {
	interval := (time.Duration(intervalMinutes) * time.Minute).Milliseconds()
	if now-lastFeedStartedAt < interval {
		return false
	}
	if lastNotifyAt == nil {
		return true
	}
	return float64(now-*lastNotifyAt) >= feedCooldownFactor*float64(interval)
}

type KickCheck struct {
	Now           time.Time
	DueDate       string
	CheckHour     int
	MinCount      int
	TodayKicks    int
	ActiveSession bool
	LastNotified  string
}

// KickCheckApplies reports whether today's evening check is still pending
// before any record is consulted.
func (k KickCheck) Applies() bool {
	week, ok := PregnancyWeek(k.Now, k.DueDate)
	if !ok || week < KickCheckFromWeek {
		return false
	}
	if k.Now.Hour() < k.CheckHour {
		return false
	}
	return k.LastNotified != clock.DateKey(k.Now)
}

func (k KickCheck) Due() bool {
	return k.Applies() && !k.ActiveSession && k.TodayKicks < k.MinCount
}

func IsPrenatalMilestone(days int) bool {
	for _, m := range PrenatalMilestones {
		if m == days {
			return true
		}
	}
	return false
}

func MilestoneToken(today string, days int) string {
	return fmt.Sprintf("%s:%d", today, days)
}

func ContainsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}

// PushCapped appends token and keeps the newest max entries.
func PushCapped(tokens []string, token string, max int) []string {
	out := append(append([]string(nil), tokens...), token)
	if len(out) > max {
		out = out[len(out)-max:]
	}
	return out
}
