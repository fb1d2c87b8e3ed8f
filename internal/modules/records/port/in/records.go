package in

import (
	"context"
	"time"

	"cradle/internal/modules/records/dto"
)

// Usecase acts on behalf of the current user, or the guest scope when no
// one is signed in.
type Usecase interface {
	StartKickSession(ctx context.Context) (dto.KickSessionOutput, error)
	RecordKick(ctx context.Context) (dto.KickSession, error)
	UndoLastKick(ctx context.Context) (dto.KickSession, error)
	EndKickSession(ctx context.Context) (dto.KickSession, error)
	TodayKicks(ctx context.Context) (dto.TodayKicksOutput, error)
	KickHistory(ctx context.Context, input dto.HistoryInput) ([]dto.KickSession, error)

	StartContractionSession(ctx context.Context) (dto.ContractionSessionOutput, error)
	StartContraction(ctx context.Context) (dto.Contraction, error)
	StopContraction(ctx context.Context) (dto.StopContractionOutput, error)
	EndContractionSession(ctx context.Context) (dto.ContractionSession, error)
	ContractionHistory(ctx context.Context, input dto.HistoryInput) ([]dto.ContractionSession, error)
	ContractionSession(ctx context.Context, sessionID string) (dto.ContractionSessionDetail, error)

	StartFeeding(ctx context.Context, input dto.StartFeedingInput) (dto.FeedingRecord, error)
	EndFeeding(ctx context.Context) (dto.FeedingRecord, error)
	UpdateFeeding(ctx context.Context, input dto.UpdateFeedingInput) (dto.FeedingOutput, error)
	LastFeeding(ctx context.Context) (dto.LastFeedingOutput, error)
	FeedingHistory(ctx context.Context, input dto.HistoryInput) ([]dto.FeedingRecord, error)

	ListBag(ctx context.Context) ([]dto.HospitalBagItem, error)
	ToggleBagItem(ctx context.Context, id string) (dto.BagItemOutput, error)
	AddBagItem(ctx context.Context, input dto.AddBagItemInput) (dto.HospitalBagItem, error)
	DeleteBagItem(ctx context.Context, id string) (bool, error)

	TodaySummary(ctx context.Context) (dto.TodaySummaryOutput, error)
	// Day lists everything recorded on the local calendar day containing at.
	Day(ctx context.Context, at time.Time) (dto.DayOutput, error)
	ClearAll(ctx context.Context) error
}

// Reader answers read-only questions about an explicit user. The reminder
// engine and the cloud bootstrap use it; neither ever writes records.
type Reader interface {
	ExportAll(ctx context.Context, userID string) (dto.Export, error)
	LastFeedingFor(ctx context.Context, userID string) (dto.LastFeedingOutput, error)
	TodayKickTotal(ctx context.Context, userID string) (int, error)
	HasActiveKickSession(ctx context.Context, userID string) (bool, error)
}
