package service

import (
	"context"
	"fmt"
	"strings"

	"cradle/internal/modules/records/domain"
	apperrors "cradle/internal/platform/errors"
)

// SeedPresets inserts the preset checklist when userID has no items yet and
// returns how many were written.
func (s *RecordService) SeedPresets(ctx context.Context, userID string) (int, error) {
	items, err := s.store.ListBagItems(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(items) > 0 {
		return 0, nil
	}
	now := s.nowMs()
	seeded := 0
	for i, preset := range domain.Presets {
		item := domain.HospitalBagItem{
			ID:        s.idGen.New(),
			UserID:    userID,
			Category:  preset.Category,
			Name:      preset.Name,
			SortOrder: i,
			CreatedAt: now,
		}
		ok, err := s.store.SaveBagItem(ctx, userID, item)
		if err != nil {
			return seeded, err
		}
		if s.applied(ok, "bag_item", item.ID, userID) {
			seeded++
		}
	}
	s.log.Debug("seeded hospital bag presets", "count", seeded, "user_id", userID)
	return seeded, nil
}

// ListBag returns the checklist in display order, seeding presets the first
// time it is empty.
func (s *RecordService) ListBag(ctx context.Context, userID string) ([]domain.HospitalBagItem, error) {
	if _, err := s.SeedPresets(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListBagItems(ctx, userID)
}

func (s *RecordService) ToggleBagItem(ctx context.Context, userID, id string) (domain.HospitalBagItem, bool, error) {
	item, err := s.store.GetBagItem(ctx, id)
	if err != nil {
		return domain.HospitalBagItem{}, false, err
	}
	if item.UserID != userID {
		s.applied(false, "bag_item", id, userID)
		return domain.HospitalBagItem{}, false, nil
	}
	item.Checked = !item.Checked
	ok, err := s.store.SaveBagItem(ctx, userID, item)
	if err != nil {
		return domain.HospitalBagItem{}, false, err
	}
	if !s.applied(ok, "bag_item", id, userID) {
		return domain.HospitalBagItem{}, false, nil
	}
	return item, true, nil
}

func (s *RecordService) AddCustomBagItem(ctx context.Context, userID string, category domain.BagCategory, name string) (domain.HospitalBagItem, error) {
	if !category.Valid() {
		return domain.HospitalBagItem{}, fmt.Errorf("%w: unknown category %q", apperrors.ErrInvalidInput, category)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.HospitalBagItem{}, fmt.Errorf("%w: item name is required", apperrors.ErrInvalidInput)
	}
	items, err := s.ListBag(ctx, userID)
	if err != nil {
		return domain.HospitalBagItem{}, err
	}
	item := domain.HospitalBagItem{
		ID:        s.idGen.New(),
		UserID:    userID,
		Category:  category,
		Name:      name,
		IsCustom:  true,
		SortOrder: domain.NextSortOrder(items),
		CreatedAt: s.nowMs(),
	}
	ok, err := s.store.SaveBagItem(ctx, userID, item)
	if err != nil {
		return domain.HospitalBagItem{}, err
	}
	if !s.applied(ok, "bag_item", item.ID, userID) {
		return domain.HospitalBagItem{}, nil
	}
	return item, nil
}

// DeleteBagItem removes a custom item. Presets stay.
func (s *RecordService) DeleteBagItem(ctx context.Context, userID, id string) (bool, error) {
	item, err := s.store.GetBagItem(ctx, id)
	if err != nil {
		return false, err
	}
	if item.UserID != userID {
		s.applied(false, "bag_item", id, userID)
		return false, nil
	}
	if !item.IsCustom {
		return false, apperrors.ErrPresetNotDeletable
	}
	ok, err := s.store.DeleteBagItem(ctx, userID, id)
	if err != nil {
		return false, err
	}
	return s.applied(ok, "bag_item", id, userID), nil
}
