package domain

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	DefaultGoalCount          = 10
	DefaultMergeWindowMinutes = 5
)

// UserSettings are the per-user tracker preferences. DueDate is
// "YYYY-MM-DD" or empty.
type UserSettings struct {
	GoalCount          int    `json:"goalCount"`
	MergeWindowMinutes int    `json:"mergeWindowMinutes"`
	DueDate            string `json:"dueDate"`
}

func DefaultUserSettings() UserSettings {
	return UserSettings{GoalCount: DefaultGoalCount, MergeWindowMinutes: DefaultMergeWindowMinutes}
}

func (s UserSettings) Normalize() UserSettings {
	s.GoalCount = clamp(s.GoalCount, 1, 50)
	s.MergeWindowMinutes = clamp(s.MergeWindowMinutes, 1, 30)
	s.DueDate = strings.TrimSpace(s.DueDate)
	if _, err := time.Parse("2006-01-02", s.DueDate); err != nil {
		s.DueDate = ""
	}
	return s
}

type ColorMode string

const (
	ColorLight  ColorMode = "light"
	ColorDark   ColorMode = "dark"
	ColorSystem ColorMode = "system"
)

type MotionLevel string

const (
	MotionFull    MotionLevel = "full"
	MotionReduced MotionLevel = "reduced"
)

// DeviceSettings belong to the device, not to whoever is signed in.
type DeviceSettings struct {
	ColorMode   ColorMode   `json:"colorMode"`
	MotionLevel MotionLevel `json:"motionLevel"`
}

func DefaultDeviceSettings() DeviceSettings {
	return DeviceSettings{ColorMode: ColorSystem, MotionLevel: MotionFull}
}

func (d DeviceSettings) Normalize() DeviceSettings {
	switch d.ColorMode {
	case ColorLight, ColorDark, ColorSystem:
	default:
		d.ColorMode = ColorSystem
	}
	switch d.MotionLevel {
	case MotionFull, MotionReduced:
	default:
		d.MotionLevel = MotionFull
	}
	return d
}

type Category string

const (
	CategoryFeeding  Category = "feeding"
	CategoryKick     Category = "kick"
	CategoryPrenatal Category = "prenatal"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryFeeding, CategoryKick, CategoryPrenatal:
		return true
	}
	return false
}

type QuietMode string

const (
	QuietMuteAll      QuietMode = "mute_all"
	QuietPriorityOnly QuietMode = "priority_only"
)

type ReminderConfig struct {
	Enabled                bool       `json:"enabled"`
	FeedingEnabled         bool       `json:"feedingEnabled"`
	FeedingIntervalMinutes int        `json:"feedingIntervalMinutes"`
	KickEnabled            bool       `json:"kickEnabled"`
	KickCheckHour          int        `json:"kickCheckHour"`
	KickMinCount           int        `json:"kickMinCount"`
	PrenatalEnabled        bool       `json:"prenatalEnabled"`
	QuietHoursEnabled      bool       `json:"quietHoursEnabled"`
	QuietStart             string     `json:"quietStart"`
	QuietEnd               string     `json:"quietEnd"`
	QuietMode              QuietMode  `json:"quietMode"`
	PriorityCategories     []Category `json:"priorityCategories"`
	MaxPerHour             int        `json:"maxPerHour"`
	MaxPerDay              int        `json:"maxPerDay"`
}

func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{
		Enabled:                true,
		FeedingEnabled:         true,
		FeedingIntervalMinutes: 180,
		KickEnabled:            true,
		KickCheckHour:          20,
		KickMinCount:           10,
		PrenatalEnabled:        true,
		QuietStart:             "22:00",
		QuietEnd:               "07:00",
		QuietMode:              QuietPriorityOnly,
		PriorityCategories:     []Category{CategoryFeeding, CategoryKick},
		MaxPerHour:             3,
		MaxPerDay:              12,
	}
}

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Normalize clamps numbers into range and replaces malformed enum or clock
// values with their defaults. Saving never rejects a config.
func (c ReminderConfig) Normalize() ReminderConfig {
	def := DefaultReminderConfig()
	c.FeedingIntervalMinutes = clamp(c.FeedingIntervalMinutes, 30, 480)
	c.KickCheckHour = clamp(c.KickCheckHour, 17, 23)
	c.KickMinCount = clamp(c.KickMinCount, 1, 50)
	c.MaxPerHour = clamp(c.MaxPerHour, 1, 10)
	c.MaxPerDay = clamp(c.MaxPerDay, 1, 50)
	if !clockPattern.MatchString(c.QuietStart) {
		c.QuietStart = def.QuietStart
	}
	if !clockPattern.MatchString(c.QuietEnd) {
		c.QuietEnd = def.QuietEnd
	}
	if c.QuietMode != QuietMuteAll && c.QuietMode != QuietPriorityOnly {
		c.QuietMode = def.QuietMode
	}
	if c.PriorityCategories == nil {
		c.PriorityCategories = def.PriorityCategories
	} else {
		seen := map[Category]bool{}
		kept := make([]Category, 0, len(c.PriorityCategories))
		for _, cat := range c.PriorityCategories {
			if cat.Valid() && !seen[cat] {
				seen[cat] = true
				kept = append(kept, cat)
			}
		}
		c.PriorityCategories = kept
	}
	return c
}

func (c ReminderConfig) IsPriority(cat Category) bool {
	for _, p := range c.PriorityCategories {
		if p == cat {
			return true
		}
	}
	return false
}

// ReminderRuntimeState is the per-user bookkeeping of what already fired.
type ReminderRuntimeState struct {
	LastFeedNotifyAt   *int64   `json:"lastFeedNotifyAt"`
	LastKickNotifyDate string   `json:"lastKickNotifyDate"`
	PrenatalMilestones []string `json:"prenatalMilestones"`
	SentAt             []int64  `json:"sentAt"`
}

func DefaultReminderState() ReminderRuntimeState {
	return ReminderRuntimeState{PrenatalMilestones: []string{}, SentAt: []int64{}}
}

func (s ReminderRuntimeState) Normalize() ReminderRuntimeState {
	if s.PrenatalMilestones == nil {
		s.PrenatalMilestones = []string{}
	}
	if s.SentAt == nil {
		s.SentAt = []int64{}
	}
	return s
}

type ToolStat struct {
	Count        int   `json:"count"`
	LastOpenedAt int64 `json:"lastOpenedAt"`
}

// ToolUsage counts tool opens on this device for menu ranking.
type ToolUsage map[string]ToolStat

type RankedTool struct {
	ID string
	ToolStat
}

// Ranked orders tools by open count, then recency, then id.
func (u ToolUsage) Ranked() []RankedTool {
	out := make([]RankedTool, 0, len(u))
	for id, st := range u {
		out = append(out, RankedTool{ID: id, ToolStat: st})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].LastOpenedAt != out[j].LastOpenedAt {
			return out[i].LastOpenedAt > out[j].LastOpenedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
