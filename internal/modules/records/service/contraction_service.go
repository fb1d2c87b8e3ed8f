package service

import (
	"context"

	"cradle/internal/modules/records/domain"
	apperrors "cradle/internal/platform/errors"
)

func (s *RecordService) StartContractionSession(ctx context.Context, userID string) (domain.ContractionSession, bool, error) {
	active, err := s.store.ActiveContractionSession(ctx, userID)
	if err == nil {
		return active, true, nil
	}
	if err != apperrors.ErrNoActiveSession {
		return domain.ContractionSession{}, false, err
	}
	session := domain.ContractionSession{
		ID:        s.idGen.New(),
		UserID:    userID,
		StartedAt: s.nowMs(),
	}
	ok, err := s.store.SaveContractionSession(ctx, userID, session)
	if err != nil {
		return domain.ContractionSession{}, false, err
	}
	if !s.applied(ok, "contraction_session", session.ID, userID) {
		return domain.ContractionSession{}, false, nil
	}
	return session, false, nil
}

// StartContraction opens a contraction in the active session. Only one
// contraction may be running at a time.
func (s *RecordService) StartContraction(ctx context.Context, userID string) (domain.Contraction, error) {
	session, err := s.store.ActiveContractionSession(ctx, userID)
	if err != nil {
		return domain.Contraction{}, err
	}
	children, err := s.store.ListContractions(ctx, userID, session.ID)
	if err != nil {
		return domain.Contraction{}, err
	}
	if openContraction(children) != nil {
		return domain.Contraction{}, apperrors.ErrActiveSessionExists
	}
	now := s.nowMs()
	c := domain.Contraction{
		ID:        s.idGen.New(),
		UserID:    userID,
		SessionID: session.ID,
		StartedAt: now,
		Interval:  domain.IntervalFor(children, now),
	}
	ok, err := s.store.SaveContraction(ctx, userID, c)
	if err != nil {
		return domain.Contraction{}, err
	}
	if !s.applied(ok, "contraction", c.ID, userID) {
		return domain.Contraction{}, nil
	}
	if _, err := s.resummarize(ctx, userID, session, append(children, c)); err != nil {
		return domain.Contraction{}, err
	}
	return c, nil
}

// StopContraction closes the running contraction and refreshes the session
// summary, which may trip the 5-1-1 alert.
func (s *RecordService) StopContraction(ctx context.Context, userID string) (domain.Contraction, domain.ContractionSession, error) {
	session, err := s.store.ActiveContractionSession(ctx, userID)
	if err != nil {
		return domain.Contraction{}, domain.ContractionSession{}, err
	}
	children, err := s.store.ListContractions(ctx, userID, session.ID)
	if err != nil {
		return domain.Contraction{}, domain.ContractionSession{}, err
	}
	open := openContraction(children)
	if open == nil {
		return domain.Contraction{}, domain.ContractionSession{}, apperrors.ErrNoActiveSession
	}
	stopped, err := s.closeContraction(ctx, userID, *open)
	if err != nil {
		return domain.Contraction{}, domain.ContractionSession{}, err
	}
	*open = stopped
	summary, err := s.resummarize(ctx, userID, session, children)
	if err != nil {
		return domain.Contraction{}, domain.ContractionSession{}, err
	}
	return stopped, summary, nil
}

// EndContractionSession stops a running contraction, if any, then closes
// the session.
func (s *RecordService) EndContractionSession(ctx context.Context, userID string) (domain.ContractionSession, error) {
	session, err := s.store.ActiveContractionSession(ctx, userID)
	if err != nil {
		return domain.ContractionSession{}, err
	}
	children, err := s.store.ListContractions(ctx, userID, session.ID)
	if err != nil {
		return domain.ContractionSession{}, err
	}
	if open := openContraction(children); open != nil {
		stopped, err := s.closeContraction(ctx, userID, *open)
		if err != nil {
			return domain.ContractionSession{}, err
		}
		*open = stopped
	}
	session.EndedAt = domain.Int64(s.nowMs())
	return s.resummarize(ctx, userID, session, children)
}

func (s *RecordService) closeContraction(ctx context.Context, userID string, c domain.Contraction) (domain.Contraction, error) {
	now := s.nowMs()
	if now < c.StartedAt {
		now = c.StartedAt
	}
	next := c
	next.EndedAt = domain.Int64(now)
	next.Duration = domain.Int64(now - c.StartedAt)
	ok, err := s.store.SaveContraction(ctx, userID, next)
	if err != nil {
		return domain.Contraction{}, err
	}
	if !s.applied(ok, "contraction", c.ID, userID) {
		return c, nil
	}
	return next, nil
}

func (s *RecordService) resummarize(ctx context.Context, userID string, session domain.ContractionSession, children []domain.Contraction) (domain.ContractionSession, error) {
	next := domain.Summarize(session, children)
	ok, err := s.store.SaveContractionSession(ctx, userID, next)
	if err != nil {
		return domain.ContractionSession{}, err
	}
	if !s.applied(ok, "contraction_session", session.ID, userID) {
		return session, nil
	}
	if next.AlertTriggered && !session.AlertTriggered {
		s.log.Info("contraction pattern alert triggered", "session_id", session.ID, "user_id", userID)
	}
	return next, nil
}

func openContraction(children []domain.Contraction) *domain.Contraction {
	for i := len(children) - 1; i >= 0; i-- {
		if children[i].EndedAt == nil {
			return &children[i]
		}
	}
	return nil
}

func (s *RecordService) ActiveContractionSession(ctx context.Context, userID string) (domain.ContractionSession, error) {
	return s.store.ActiveContractionSession(ctx, userID)
}

func (s *RecordService) ContractionHistory(ctx context.Context, userID string, q domain.RangeQuery) ([]domain.ContractionSession, error) {
	return s.store.ListContractionSessions(ctx, userID, q)
}

func (s *RecordService) ContractionSessionsForDay(ctx context.Context, userID string, ts int64) ([]domain.ContractionSession, error) {
	return s.store.ListContractionSessions(ctx, userID, s.dayQuery(ts))
}

// SessionContractions lists a session's contractions oldest first. A
// session owned by someone else yields nothing.
func (s *RecordService) SessionContractions(ctx context.Context, userID, sessionID string) ([]domain.Contraction, error) {
	return s.store.ListContractions(ctx, userID, sessionID)
}
