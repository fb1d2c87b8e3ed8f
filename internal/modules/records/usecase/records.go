package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	authdto "cradle/internal/modules/auth/dto"
	"cradle/internal/modules/records/domain"
	"cradle/internal/modules/records/dto"
	recordsin "cradle/internal/modules/records/port/in"
	recordsout "cradle/internal/modules/records/port/out"
	"cradle/internal/modules/records/service"
	"cradle/internal/platform/clock"
	apperrors "cradle/internal/platform/errors"
)

type Interactor struct {
	svc      *service.RecordService
	identity recordsout.Identity
	prefs    recordsout.Preferences
	clock    clock.Clock
}

func NewInteractor(svc *service.RecordService, identity recordsout.Identity, prefs recordsout.Preferences, clock clock.Clock) *Interactor {
	return &Interactor{svc: svc, identity: identity, prefs: prefs, clock: clock}
}

var (
	_ recordsin.Usecase = (*Interactor)(nil)
	_ recordsin.Reader  = (*Interactor)(nil)
)

// userID is resolved per call so a login or logout between two actions
// moves the next write into the new scope.
func (i *Interactor) userID(ctx context.Context) string {
	if i.identity != nil {
		if uid, ok := i.identity.CurrentUserID(ctx); ok && uid != "" {
			return uid
		}
	}
	return authdto.GuestUserID
}

func toQuery(in dto.HistoryInput) domain.RangeQuery {
	return domain.RangeQuery{Since: in.Since, Before: in.Before, Limit: in.Limit}
}

func (i *Interactor) StartKickSession(ctx context.Context) (dto.KickSessionOutput, error) {
	s, resumed, err := i.svc.StartKickSession(ctx, i.userID(ctx))
	if err != nil {
		return dto.KickSessionOutput{}, err
	}
	return dto.KickSessionOutput{Session: s, Resumed: resumed}, nil
}

func (i *Interactor) RecordKick(ctx context.Context) (dto.KickSession, error) {
	return i.svc.RecordKick(ctx, i.userID(ctx))
}

func (i *Interactor) UndoLastKick(ctx context.Context) (dto.KickSession, error) {
	return i.svc.UndoLastKick(ctx, i.userID(ctx))
}

func (i *Interactor) EndKickSession(ctx context.Context) (dto.KickSession, error) {
	return i.svc.EndKickSession(ctx, i.userID(ctx))
}

func (i *Interactor) TodayKicks(ctx context.Context) (dto.TodayKicksOutput, error) {
	uid := i.userID(ctx)
	now := i.clock.Now()
	sessions, err := i.svc.KickSessionsForDay(ctx, uid, now.UnixMilli())
	if err != nil {
		return dto.TodayKicksOutput{}, err
	}
	out := dto.TodayKicksOutput{
		Date:       clock.DateKey(now),
		TotalKicks: domain.TotalKicks(sessions),
		Sessions:   sessions,
	}
	active, err := i.svc.ActiveKickSession(ctx, uid)
	switch {
	case err == nil:
		out.Active = &active
	case err != apperrors.ErrNoActiveSession:
		return dto.TodayKicksOutput{}, err
	}
	if i.prefs != nil {
		if out.GoalCount, err = i.prefs.GoalCount(ctx, uid); err != nil {
			return dto.TodayKicksOutput{}, err
		}
		if out.MergeMinutes, err = i.prefs.MergeWindowMinutes(ctx, uid); err != nil {
			return dto.TodayKicksOutput{}, err
		}
	}
	return out, nil
}

func (i *Interactor) KickHistory(ctx context.Context, input dto.HistoryInput) ([]dto.KickSession, error) {
	return i.svc.KickHistory(ctx, i.userID(ctx), toQuery(input))
}

func (i *Interactor) StartContractionSession(ctx context.Context) (dto.ContractionSessionOutput, error) {
	s, resumed, err := i.svc.StartContractionSession(ctx, i.userID(ctx))
	if err != nil {
		return dto.ContractionSessionOutput{}, err
	}
	return dto.ContractionSessionOutput{Session: s, Resumed: resumed}, nil
}

func (i *Interactor) StartContraction(ctx context.Context) (dto.Contraction, error) {
	return i.svc.StartContraction(ctx, i.userID(ctx))
}

func (i *Interactor) StopContraction(ctx context.Context) (dto.StopContractionOutput, error) {
	c, s, err := i.svc.StopContraction(ctx, i.userID(ctx))
	if err != nil {
		return dto.StopContractionOutput{}, err
	}
	return dto.StopContractionOutput{Contraction: c, Session: s}, nil
}

func (i *Interactor) EndContractionSession(ctx context.Context) (dto.ContractionSession, error) {
	return i.svc.EndContractionSession(ctx, i.userID(ctx))
}

func (i *Interactor) ContractionHistory(ctx context.Context, input dto.HistoryInput) ([]dto.ContractionSession, error) {
	return i.svc.ContractionHistory(ctx, i.userID(ctx), toQuery(input))
}

func (i *Interactor) ContractionSession(ctx context.Context, sessionID string) (dto.ContractionSessionDetail, error) {
	uid := i.userID(ctx)
	sessions, err := i.svc.ContractionHistory(ctx, uid, domain.RangeQuery{})
	if err != nil {
		return dto.ContractionSessionDetail{}, err
	}
	for _, s := range sessions {
		if s.ID != sessionID {
			continue
		}
		children, err := i.svc.SessionContractions(ctx, uid, sessionID)
		if err != nil {
			return dto.ContractionSessionDetail{}, err
		}
		return dto.ContractionSessionDetail{Session: s, Contractions: children}, nil
	}
	return dto.ContractionSessionDetail{}, apperrors.ErrNotFound
}

func (i *Interactor) StartFeeding(ctx context.Context, input dto.StartFeedingInput) (dto.FeedingRecord, error) {
	kind := domain.FeedingType(strings.ToLower(strings.TrimSpace(input.Type)))
	return i.svc.StartFeeding(ctx, i.userID(ctx), kind, input.VolumeMl, input.Notes)
}

func (i *Interactor) EndFeeding(ctx context.Context) (dto.FeedingRecord, error) {
	return i.svc.EndFeeding(ctx, i.userID(ctx))
}

func (i *Interactor) UpdateFeeding(ctx context.Context, input dto.UpdateFeedingInput) (dto.FeedingOutput, error) {
	if strings.TrimSpace(input.ID) == "" {
		return dto.FeedingOutput{}, fmt.Errorf("%w: feeding id is required", apperrors.ErrInvalidInput)
	}
	rec, applied, err := i.svc.UpdateFeeding(ctx, i.userID(ctx), input.ID, input.VolumeMl, input.Notes)
	if err != nil {
		return dto.FeedingOutput{}, err
	}
	return dto.FeedingOutput{Record: rec, Applied: applied}, nil
}

func (i *Interactor) LastFeeding(ctx context.Context) (dto.LastFeedingOutput, error) {
	return i.lastFeeding(ctx, i.userID(ctx))
}

func (i *Interactor) lastFeeding(ctx context.Context, uid string) (dto.LastFeedingOutput, error) {
	rec, found, err := i.svc.LastFeeding(ctx, uid)
	if err != nil {
		return dto.LastFeedingOutput{}, err
	}
	return dto.LastFeedingOutput{Record: rec, Found: found}, nil
}

func (i *Interactor) FeedingHistory(ctx context.Context, input dto.HistoryInput) ([]dto.FeedingRecord, error) {
	return i.svc.FeedingHistory(ctx, i.userID(ctx), toQuery(input))
}

func (i *Interactor) ListBag(ctx context.Context) ([]dto.HospitalBagItem, error) {
	return i.svc.ListBag(ctx, i.userID(ctx))
}

func (i *Interactor) ToggleBagItem(ctx context.Context, id string) (dto.BagItemOutput, error) {
	item, applied, err := i.svc.ToggleBagItem(ctx, i.userID(ctx), id)
	if err != nil {
		return dto.BagItemOutput{}, err
	}
	return dto.BagItemOutput{Item: item, Applied: applied}, nil
}

func (i *Interactor) AddBagItem(ctx context.Context, input dto.AddBagItemInput) (dto.HospitalBagItem, error) {
	category := domain.BagCategory(strings.ToLower(strings.TrimSpace(input.Category)))
	return i.svc.AddCustomBagItem(ctx, i.userID(ctx), category, input.Name)
}

func (i *Interactor) DeleteBagItem(ctx context.Context, id string) (bool, error) {
	return i.svc.DeleteBagItem(ctx, i.userID(ctx), id)
}

func (i *Interactor) TodaySummary(ctx context.Context) (dto.TodaySummaryOutput, error) {
	uid := i.userID(ctx)
	now := i.clock.Now()
	ts := now.UnixMilli()
	out := dto.TodaySummaryOutput{Date: clock.DateKey(now)}

	kicks, err := i.svc.KickSessionsForDay(ctx, uid, ts)
	if err != nil {
		return dto.TodaySummaryOutput{}, err
	}
	out.TotalKicks = domain.TotalKicks(kicks)
	if active, err := i.svc.ActiveKickSession(ctx, uid); err == nil {
		out.ActiveKickSession = &active
	} else if err != apperrors.ErrNoActiveSession {
		return dto.TodaySummaryOutput{}, err
	}

	feeds, err := i.svc.FeedingsForDay(ctx, uid, ts)
	if err != nil {
		return dto.TodaySummaryOutput{}, err
	}
	out.Feedings = len(feeds)
	if last, found, err := i.svc.LastFeeding(ctx, uid); err != nil {
		return dto.TodaySummaryOutput{}, err
	} else if found {
		out.LastFeeding = &last
	}
	if open, err := i.svc.OpenFeeding(ctx, uid); err == nil {
		out.OpenFeeding = &open
	} else if err != apperrors.ErrNoActiveSession {
		return dto.TodaySummaryOutput{}, err
	}

	sessions, err := i.svc.ContractionSessionsForDay(ctx, uid, ts)
	if err != nil {
		return dto.TodaySummaryOutput{}, err
	}
	for _, s := range sessions {
		if s.AlertTriggered {
			out.ContractionAlert = true
			break
		}
	}

	items, err := i.svc.ListBag(ctx, uid)
	if err != nil {
		return dto.TodaySummaryOutput{}, err
	}
	out.BagTotal = len(items)
	for _, it := range items {
		if it.Checked {
			out.BagChecked++
		}
	}
	return out, nil
}

func (i *Interactor) Day(ctx context.Context, at time.Time) (dto.DayOutput, error) {
	uid := i.userID(ctx)
	ts := at.UnixMilli()
	kicks, err := i.svc.KickSessionsForDay(ctx, uid, ts)
	if err != nil {
		return dto.DayOutput{}, err
	}
	sessions, err := i.svc.ContractionSessionsForDay(ctx, uid, ts)
	if err != nil {
		return dto.DayOutput{}, err
	}
	feeds, err := i.svc.FeedingsForDay(ctx, uid, ts)
	if err != nil {
		return dto.DayOutput{}, err
	}
	return dto.DayOutput{
		Date:                clock.DateKey(at),
		TotalKicks:          domain.TotalKicks(kicks),
		KickSessions:        kicks,
		ContractionSessions: sessions,
		Feedings:            feeds,
	}, nil
}

func (i *Interactor) ClearAll(ctx context.Context) error {
	return i.svc.ClearAll(ctx, i.userID(ctx))
}

func (i *Interactor) ExportAll(ctx context.Context, userID string) (dto.Export, error) {
	return i.svc.ExportAll(ctx, userID)
}

func (i *Interactor) LastFeedingFor(ctx context.Context, userID string) (dto.LastFeedingOutput, error) {
	return i.lastFeeding(ctx, userID)
}

func (i *Interactor) TodayKickTotal(ctx context.Context, userID string) (int, error) {
	return i.svc.TodayKickCount(ctx, userID)
}

func (i *Interactor) HasActiveKickSession(ctx context.Context, userID string) (bool, error) {
	_, err := i.svc.ActiveKickSession(ctx, userID)
	if err == nil {
		return true, nil
	}
	if err == apperrors.ErrNoActiveSession {
		return false, nil
	}
	return false, err
}
