package out

import (
	"context"
	"encoding/json"
	"fmt"

	authdto "cradle/internal/modules/auth/dto"
	"cradle/internal/modules/settings/domain"
	"cradle/internal/platform/kv"
)

const stepsKey = "meta:kv_steps"

// Older releases kept one flat "settings" blob and unscoped reminder keys.
// Data created before sign-in belongs to the guest scope.
const (
	legacySettingsKey       = "settings"
	legacyReminderConfigKey = "reminder_config"
	legacyReminderStateKey  = "reminder_state"
)

type keyStep struct {
	name string
	run  func(ctx context.Context, store kv.Store) error
}

var keySteps = []keyStep{
	{name: "split-legacy-settings", run: splitLegacySettings},
	{name: "scope-legacy-reminder-keys", run: scopeLegacyReminderKeys},
}

// MigrateLegacyKeys applies pending steps in order and returns the names it
// ran. A step is recorded only after it succeeded.
func (s *KVSettingsStore) MigrateLegacyKeys(ctx context.Context) ([]string, error) {
	done, _, err := kv.LoadJSON[[]string](ctx, s.kv, stepsKey, nil)
	if err != nil {
		return nil, err
	}
	applied := map[string]bool{}
	for _, name := range done {
		applied[name] = true
	}
	var ran []string
	for _, step := range keySteps {
		if applied[step.name] {
			continue
		}
		if err := step.run(ctx, s.kv); err != nil {
			return ran, fmt.Errorf("kv step %s: %w", step.name, err)
		}
		done = append(done, step.name)
		if err := kv.SaveJSON(ctx, s.kv, stepsKey, done); err != nil {
			return ran, err
		}
		ran = append(ran, step.name)
	}
	return ran, nil
}

type legacySettings struct {
	GoalCount          *int    `json:"goalCount"`
	MergeWindowMinutes *int    `json:"mergeWindowMinutes"`
	DueDate            *string `json:"dueDate"`
	ColorMode          *string `json:"colorMode"`
	MotionLevel        *string `json:"motionLevel"`
}

func splitLegacySettings(ctx context.Context, store kv.Store) error {
	raw, ok, err := store.Get(ctx, legacySettingsKey)
	if err != nil || !ok {
		return err
	}
	var old legacySettings
	if err := json.Unmarshal([]byte(raw), &old); err != nil {
		// unreadable blob: nothing worth carrying over
		return store.Delete(ctx, legacySettingsKey)
	}

	if _, exists, err := store.Get(ctx, deviceKey); err != nil {
		return err
	} else if !exists {
		device := domain.DefaultDeviceSettings()
		if old.ColorMode != nil {
			device.ColorMode = domain.ColorMode(*old.ColorMode)
		}
		if old.MotionLevel != nil {
			device.MotionLevel = domain.MotionLevel(*old.MotionLevel)
		}
		if err := kv.SaveJSON(ctx, store, deviceKey, device.Normalize()); err != nil {
			return err
		}
	}

	guestKey := userKey(authdto.GuestUserID)
	if _, exists, err := store.Get(ctx, guestKey); err != nil {
		return err
	} else if !exists {
		user := domain.DefaultUserSettings()
		if old.GoalCount != nil {
			user.GoalCount = *old.GoalCount
		}
		if old.MergeWindowMinutes != nil {
			user.MergeWindowMinutes = *old.MergeWindowMinutes
		}
		if old.DueDate != nil {
			user.DueDate = *old.DueDate
		}
		if err := kv.SaveJSON(ctx, store, guestKey, user.Normalize()); err != nil {
			return err
		}
	}
	return store.Delete(ctx, legacySettingsKey)
}

func scopeLegacyReminderKeys(ctx context.Context, store kv.Store) error {
	moves := []struct{ from, to string }{
		{legacyReminderConfigKey, reminderConfigKey(authdto.GuestUserID)},
		{legacyReminderStateKey, reminderStateKey(authdto.GuestUserID)},
	}
	for _, m := range moves {
		raw, ok, err := store.Get(ctx, m.from)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if _, exists, err := store.Get(ctx, m.to); err != nil {
			return err
		} else if !exists {
			if err := store.Set(ctx, m.to, raw); err != nil {
				return err
			}
		}
		if err := store.Delete(ctx, m.from); err != nil {
			return err
		}
	}
	return nil
}
