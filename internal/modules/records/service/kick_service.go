package service

import (
	"context"
	"time"

	"cradle/internal/modules/records/domain"
	apperrors "cradle/internal/platform/errors"
)

func (s *RecordService) kickPrefs(ctx context.Context, userID string) (int64, int, error) {
	window, err := s.prefs.MergeWindowMinutes(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	goal, err := s.prefs.GoalCount(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return (time.Duration(window) * time.Minute).Milliseconds(), goal, nil
}

// StartKickSession resumes the active session when one exists; resumed
// reports which case happened.
func (s *RecordService) StartKickSession(ctx context.Context, userID string) (domain.KickSession, bool, error) {
	active, err := s.store.ActiveKickSession(ctx, userID)
	if err == nil {
		return active, true, nil
	}
	if err != apperrors.ErrNoActiveSession {
		return domain.KickSession{}, false, err
	}
	session := domain.KickSession{
		ID:        s.idGen.New(),
		UserID:    userID,
		StartedAt: s.nowMs(),
		Taps:      []domain.Tap{},
	}
	ok, err := s.store.SaveKickSession(ctx, userID, session)
	if err != nil {
		return domain.KickSession{}, false, err
	}
	if !s.applied(ok, "kick_session", session.ID, userID) {
		return domain.KickSession{}, false, nil
	}
	return session, false, nil
}

// RecordKick appends a tap at the current time to the active session.
func (s *RecordService) RecordKick(ctx context.Context, userID string) (domain.KickSession, error) {
	return s.RecordKickAt(ctx, userID, s.nowMs())
}

func (s *RecordService) RecordKickAt(ctx context.Context, userID string, at int64) (domain.KickSession, error) {
	active, err := s.store.ActiveKickSession(ctx, userID)
	if err != nil {
		return domain.KickSession{}, err
	}
	windowMs, goal, err := s.kickPrefs(ctx, userID)
	if err != nil {
		return domain.KickSession{}, err
	}
	next := domain.ApplyTap(active, at, windowMs, goal)
	next.GoalReached = next.GoalReached || active.GoalReached
	return s.saveKick(ctx, userID, active, next)
}

func (s *RecordService) UndoLastKick(ctx context.Context, userID string) (domain.KickSession, error) {
	active, err := s.store.ActiveKickSession(ctx, userID)
	if err != nil {
		return domain.KickSession{}, err
	}
	if len(active.Taps) == 0 {
		return active, nil
	}
	_, goal, err := s.kickPrefs(ctx, userID)
	if err != nil {
		return domain.KickSession{}, err
	}
	return s.saveKick(ctx, userID, active, domain.UndoTap(active, goal))
}

func (s *RecordService) EndKickSession(ctx context.Context, userID string) (domain.KickSession, error) {
	active, err := s.store.ActiveKickSession(ctx, userID)
	if err != nil {
		return domain.KickSession{}, err
	}
	next := active
	next.EndedAt = domain.Int64(s.nowMs())
	return s.saveKick(ctx, userID, active, next)
}

func (s *RecordService) saveKick(ctx context.Context, userID string, prev, next domain.KickSession) (domain.KickSession, error) {
	ok, err := s.store.SaveKickSession(ctx, userID, next)
	if err != nil {
		return domain.KickSession{}, err
	}
	if !s.applied(ok, "kick_session", next.ID, userID) {
		return prev, nil
	}
	return next, nil
}

func (s *RecordService) ActiveKickSession(ctx context.Context, userID string) (domain.KickSession, error) {
	return s.store.ActiveKickSession(ctx, userID)
}

func (s *RecordService) KickHistory(ctx context.Context, userID string, q domain.RangeQuery) ([]domain.KickSession, error) {
	return s.store.ListKickSessions(ctx, userID, q)
}

// KickSessionsForDay returns sessions started on the local day containing ts.
func (s *RecordService) KickSessionsForDay(ctx context.Context, userID string, ts int64) ([]domain.KickSession, error) {
	return s.store.ListKickSessions(ctx, userID, s.dayQuery(ts))
}

// TodayKickCount sums kick counts over today's sessions, including the
// active one.
func (s *RecordService) TodayKickCount(ctx context.Context, userID string) (int, error) {
	sessions, err := s.KickSessionsForDay(ctx, userID, s.nowMs())
	if err != nil {
		return 0, err
	}
	return domain.TotalKicks(sessions), nil
}
