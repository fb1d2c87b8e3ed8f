package out

import (
	"context"

	"cradle/internal/modules/records/domain"
)

// Every Save/Delete takes the acting user's id. When the stored row or the
// record itself belongs to someone else the call is a no-op that reports
// false: several accounts share the device database and one must never
// overwrite another's data.

type KickSessionStore interface {
	ListKickSessions(ctx context.Context, userID string, q domain.RangeQuery) ([]domain.KickSession, error)
	ActiveKickSession(ctx context.Context, userID string) (domain.KickSession, error)
	GetKickSession(ctx context.Context, id string) (domain.KickSession, error)
	SaveKickSession(ctx context.Context, actorID string, s domain.KickSession) (bool, error)
}

type ContractionStore interface {
	ListContractionSessions(ctx context.Context, userID string, q domain.RangeQuery) ([]domain.ContractionSession, error)
	ActiveContractionSession(ctx context.Context, userID string) (domain.ContractionSession, error)
	GetContractionSession(ctx context.Context, id string) (domain.ContractionSession, error)
	SaveContractionSession(ctx context.Context, actorID string, s domain.ContractionSession) (bool, error)

	ListContractions(ctx context.Context, userID, sessionID string) ([]domain.Contraction, error)
	ListAllContractions(ctx context.Context, userID string) ([]domain.Contraction, error)
	GetContraction(ctx context.Context, id string) (domain.Contraction, error)
	SaveContraction(ctx context.Context, actorID string, c domain.Contraction) (bool, error)
}

type FeedingStore interface {
	ListFeedings(ctx context.Context, userID string, q domain.RangeQuery) ([]domain.FeedingRecord, error)
	OpenFeeding(ctx context.Context, userID string) (domain.FeedingRecord, error)
	GetFeeding(ctx context.Context, id string) (domain.FeedingRecord, error)
	SaveFeeding(ctx context.Context, actorID string, r domain.FeedingRecord) (bool, error)
}

type HospitalBagStore interface {
	ListBagItems(ctx context.Context, userID string) ([]domain.HospitalBagItem, error)
	GetBagItem(ctx context.Context, id string) (domain.HospitalBagItem, error)
	SaveBagItem(ctx context.Context, actorID string, item domain.HospitalBagItem) (bool, error)
	DeleteBagItem(ctx context.Context, actorID, id string) (bool, error)
}

type RecordStore interface {
	KickSessionStore
	ContractionStore
	FeedingStore
	HospitalBagStore
	ClearUser(ctx context.Context, userID string) error
}

// Preferences is the slice of user settings the trackers read.
type Preferences interface {
	GoalCount(ctx context.Context, userID string) (int, error)
	MergeWindowMinutes(ctx context.Context, userID string) (int, error)
}

// Identity resolves who the records belong to. ok is false for a guest.
type Identity interface {
	CurrentUserID(ctx context.Context) (string, bool)
}
