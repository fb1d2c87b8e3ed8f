package in

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"cradle/internal/modules/settings/dto"
	settingsin "cradle/internal/modules/settings/port/in"
	apperrors "cradle/internal/platform/errors"
)

type CLIHandler struct {
	usecase settingsin.Usecase
}

func NewCLIHandler(usecase settingsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (dto.UserSettings, dto.DeviceSettings, error) {
	user, err := h.usecase.UserSettings(ctx)
	if err != nil {
		return dto.UserSettings{}, dto.DeviceSettings{}, err
	}
	device, err := h.usecase.DeviceSettings(ctx)
	if err != nil {
		return dto.UserSettings{}, dto.DeviceSettings{}, err
	}
	return user, device, nil
}

// SetUser changes one user setting. Numbers are clamped by the usecase.
func (h CLIHandler) SetUser(ctx context.Context, key, value string) (dto.UserSettings, error) {
	return h.usecase.UpdateUserSettings(ctx, func(s *dto.UserSettings) error {
		switch normalizeKey(key) {
		case "goalcount", "goal":
			return setInt(&s.GoalCount, key, value)
		case "mergewindowminutes", "mergewindow":
			return setInt(&s.MergeWindowMinutes, key, value)
		case "duedate":
			s.DueDate = strings.TrimSpace(value)
			return nil
		}
		return unknownKey(key)
	})
}

func (h CLIHandler) SetDevice(ctx context.Context, key, value string) (dto.DeviceSettings, error) {
	return h.usecase.UpdateDeviceSettings(ctx, func(s *dto.DeviceSettings) error {
		switch normalizeKey(key) {
		case "colormode", "color":
			s.ColorMode = dto.ColorMode(strings.ToLower(strings.TrimSpace(value)))
			return nil
		case "motionlevel", "motion":
			s.MotionLevel = dto.MotionLevel(strings.ToLower(strings.TrimSpace(value)))
			return nil
		}
		return unknownKey(key)
	})
}

func (h CLIHandler) ReminderConfig(ctx context.Context) (dto.ReminderConfig, error) {
	return h.usecase.ReminderConfig(ctx)
}

func (h CLIHandler) SetReminder(ctx context.Context, key, value string) (dto.ReminderConfig, error) {
	return h.usecase.UpdateReminderConfig(ctx, func(c *dto.ReminderConfig) error {
		switch normalizeKey(key) {
		case "enabled":
			return setBool(&c.Enabled, key, value)
		case "feedingenabled":
			return setBool(&c.FeedingEnabled, key, value)
		case "feedingintervalminutes", "feedinginterval":
			return setInt(&c.FeedingIntervalMinutes, key, value)
		case "kickenabled":
			return setBool(&c.KickEnabled, key, value)
		case "kickcheckhour":
			return setInt(&c.KickCheckHour, key, value)
		case "kickmincount":
			return setInt(&c.KickMinCount, key, value)
		case "prenatalenabled":
			return setBool(&c.PrenatalEnabled, key, value)
		case "quiethoursenabled", "quiethours":
			return setBool(&c.QuietHoursEnabled, key, value)
		case "quietstart":
			c.QuietStart = strings.TrimSpace(value)
			return nil
		case "quietend":
			c.QuietEnd = strings.TrimSpace(value)
			return nil
		case "quietmode":
			c.QuietMode = dto.QuietMode(strings.ToLower(strings.TrimSpace(value)))
			return nil
		case "prioritycategories", "priority":
			c.PriorityCategories = []dto.Category{}
			for _, part := range strings.Split(value, ",") {
				if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
					c.PriorityCategories = append(c.PriorityCategories, dto.Category(part))
				}
			}
			return nil
		case "maxperhour":
			return setInt(&c.MaxPerHour, key, value)
		case "maxperday":
			return setInt(&c.MaxPerDay, key, value)
		}
		return unknownKey(key)
	})
}

func (h CLIHandler) RecordToolOpen(ctx context.Context, toolID string) error {
	return h.usecase.RecordToolOpen(ctx, toolID)
}

func (h CLIHandler) RankedTools(ctx context.Context) ([]dto.RankedTool, error) {
	return h.usecase.RankedTools(ctx)
}

// normalizeKey accepts camelCase, snake_case and kebab-case spellings.
func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.NewReplacer("_", "", "-", "").Replace(key)
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s must be an integer", apperrors.ErrInvalidInput, key)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s must be true or false", apperrors.ErrInvalidInput, key)
	}
	*dst = b
	return nil
}

func unknownKey(key string) error {
	return fmt.Errorf("%w: unknown setting %q", apperrors.ErrInvalidInput, key)
}
