package service

import (
	"context"
	"time"

	"cradle/internal/modules/records/domain"
	recordsout "cradle/internal/modules/records/port/out"
	"cradle/internal/platform/clock"
	"cradle/internal/platform/id"
	"cradle/internal/platform/logger"
)

// RecordService owns every mutation of the local record store. All methods
// take the already-resolved user id; reads are scoped to it and writes go
// through the store's ownership guard.
type RecordService struct {
	clock clock.Clock
	idGen id.Generator
	store recordsout.RecordStore
	prefs recordsout.Preferences
	log   *logger.Logger
}

func NewRecordService(clock clock.Clock, idGen id.Generator, store recordsout.RecordStore, prefs recordsout.Preferences, log *logger.Logger) *RecordService {
	if log == nil {
		log = logger.NewNop()
	}
	return &RecordService{clock: clock, idGen: idGen, store: store, prefs: prefs, log: log}
}

func (s *RecordService) nowMs() int64 {
	return s.clock.Now().UnixMilli()
}

func (s *RecordService) location() *time.Location {
	return s.clock.Now().Location()
}

// dayQuery selects the local calendar day containing ts.
func (s *RecordService) dayQuery(ts int64) domain.RangeQuery {
	start, end := clock.DayBounds(ts, s.location())
	return domain.RangeQuery{Since: domain.Int64(start), Before: domain.Int64(end + 1)}
}

// applied logs writes the ownership guard dropped. They are not errors.
func (s *RecordService) applied(ok bool, kind, recordID, userID string) bool {
	if !ok {
		s.log.Debug("ownership guard dropped write", "kind", kind, "record_id", recordID, "user_id", userID)
	}
	return ok
}

func (s *RecordService) ClearAll(ctx context.Context, userID string) error {
	if err := s.store.ClearUser(ctx, userID); err != nil {
		return err
	}
	s.log.Info("cleared local records", "user_id", userID)
	return nil
}

// ExportAll collects every record userID owns. Nothing is modified.
func (s *RecordService) ExportAll(ctx context.Context, userID string) (domain.Export, error) {
	all := domain.RangeQuery{}
	kicks, err := s.store.ListKickSessions(ctx, userID, all)
	if err != nil {
		return domain.Export{}, err
	}
	sessions, err := s.store.ListContractionSessions(ctx, userID, all)
	if err != nil {
		return domain.Export{}, err
	}
	contractions, err := s.store.ListAllContractions(ctx, userID)
	if err != nil {
		return domain.Export{}, err
	}
	bag, err := s.store.ListBagItems(ctx, userID)
	if err != nil {
		return domain.Export{}, err
	}
	feedings, err := s.store.ListFeedings(ctx, userID, all)
	if err != nil {
		return domain.Export{}, err
	}
	return domain.Export{
		KickSessions:        kicks,
		ContractionSessions: sessions,
		Contractions:        contractions,
		HospitalBagItems:    bag,
		FeedingRecords:      feedings,
	}, nil
}
