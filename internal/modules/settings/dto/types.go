package dto

import "cradle/internal/modules/settings/domain"

type (
	UserSettings         = domain.UserSettings
	DeviceSettings       = domain.DeviceSettings
	ReminderConfig       = domain.ReminderConfig
	ReminderRuntimeState = domain.ReminderRuntimeState
	RankedTool           = domain.RankedTool
	Category             = domain.Category
	QuietMode            = domain.QuietMode
	ColorMode            = domain.ColorMode
	MotionLevel          = domain.MotionLevel
)

const (
	CategoryFeeding   = domain.CategoryFeeding
	CategoryKick      = domain.CategoryKick
	CategoryPrenatal  = domain.CategoryPrenatal
	QuietMuteAll      = domain.QuietMuteAll
	QuietPriorityOnly = domain.QuietPriorityOnly
	ColorLight        = domain.ColorLight
	ColorDark         = domain.ColorDark
)

func DefaultReminderConfig() ReminderConfig { return domain.DefaultReminderConfig() }
