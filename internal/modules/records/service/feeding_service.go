package service

import (
	"context"
	"fmt"
	"strings"

	"cradle/internal/modules/records/domain"
	apperrors "cradle/internal/platform/errors"
)

// StartFeeding records a bottle feed as an instantaneous closed record. Any
// other type first closes the open timed record, so at most one stays open.
func (s *RecordService) StartFeeding(ctx context.Context, userID string, kind domain.FeedingType, volumeMl *int, notes *string) (domain.FeedingRecord, error) {
	if !kind.Valid() {
		return domain.FeedingRecord{}, fmt.Errorf("%w: unknown feeding type %q", apperrors.ErrInvalidInput, kind)
	}
	if volumeMl != nil && *volumeMl < 0 {
		return domain.FeedingRecord{}, fmt.Errorf("%w: volume must be non-negative", apperrors.ErrInvalidInput)
	}
	now := s.nowMs()
	rec := domain.FeedingRecord{
		ID:        s.idGen.New(),
		UserID:    userID,
		Type:      kind,
		StartedAt: now,
		VolumeMl:  volumeMl,
		Notes:     cleanNotes(notes),
	}
	if kind.Timed() {
		if _, err := s.EndFeeding(ctx, userID); err != nil && err != apperrors.ErrNoActiveSession {
			return domain.FeedingRecord{}, err
		}
	} else {
		rec.EndedAt = domain.Int64(now)
		rec.Duration = domain.Int64(0)
	}
	ok, err := s.store.SaveFeeding(ctx, userID, rec)
	if err != nil {
		return domain.FeedingRecord{}, err
	}
	if !s.applied(ok, "feeding", rec.ID, userID) {
		return domain.FeedingRecord{}, nil
	}
	return rec, nil
}

// EndFeeding closes the open timed record.
func (s *RecordService) EndFeeding(ctx context.Context, userID string) (domain.FeedingRecord, error) {
	open, err := s.store.OpenFeeding(ctx, userID)
	if err != nil {
		return domain.FeedingRecord{}, err
	}
	now := s.nowMs()
	if now < open.StartedAt {
		now = open.StartedAt
	}
	next := open
	next.EndedAt = domain.Int64(now)
	next.Duration = domain.Int64(now - open.StartedAt)
	ok, err := s.store.SaveFeeding(ctx, userID, next)
	if err != nil {
		return domain.FeedingRecord{}, err
	}
	if !s.applied(ok, "feeding", open.ID, userID) {
		return open, nil
	}
	return next, nil
}

// UpdateFeeding edits volume and notes of a record userID owns. Nil leaves
// a field unchanged. applied is false when the record belongs to someone
// else.
func (s *RecordService) UpdateFeeding(ctx context.Context, userID, id string, volumeMl *int, notes *string) (domain.FeedingRecord, bool, error) {
	rec, err := s.store.GetFeeding(ctx, id)
	if err != nil {
		return domain.FeedingRecord{}, false, err
	}
	if rec.UserID != userID {
		s.applied(false, "feeding", id, userID)
		return domain.FeedingRecord{}, false, nil
	}
	if volumeMl != nil {
		if *volumeMl < 0 {
			return domain.FeedingRecord{}, false, fmt.Errorf("%w: volume must be non-negative", apperrors.ErrInvalidInput)
		}
		rec.VolumeMl = volumeMl
	}
	if notes != nil {
		rec.Notes = cleanNotes(notes)
	}
	ok, err := s.store.SaveFeeding(ctx, userID, rec)
	if err != nil {
		return domain.FeedingRecord{}, false, err
	}
	if !s.applied(ok, "feeding", id, userID) {
		return domain.FeedingRecord{}, false, nil
	}
	return rec, true, nil
}

// LastFeeding returns the most recently started record of any type.
func (s *RecordService) LastFeeding(ctx context.Context, userID string) (domain.FeedingRecord, bool, error) {
	recs, err := s.store.ListFeedings(ctx, userID, domain.RangeQuery{Limit: 1})
	if err != nil {
		return domain.FeedingRecord{}, false, err
	}
	if len(recs) == 0 {
		return domain.FeedingRecord{}, false, nil
	}
	return recs[0], true, nil
}

func (s *RecordService) OpenFeeding(ctx context.Context, userID string) (domain.FeedingRecord, error) {
	return s.store.OpenFeeding(ctx, userID)
}

func (s *RecordService) FeedingHistory(ctx context.Context, userID string, q domain.RangeQuery) ([]domain.FeedingRecord, error) {
	return s.store.ListFeedings(ctx, userID, q)
}

func (s *RecordService) FeedingsForDay(ctx context.Context, userID string, ts int64) ([]domain.FeedingRecord, error) {
	return s.store.ListFeedings(ctx, userID, s.dayQuery(ts))
}

func cleanNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	v := strings.TrimSpace(*notes)
	if v == "" {
		return nil
	}
	return &v
}
