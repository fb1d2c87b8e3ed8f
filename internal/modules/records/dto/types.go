package dto

import "cradle/internal/modules/records/domain"

// Record shapes cross module boundaries unchanged; their JSON form is the
// backend snapshot format.
type (
	KickSession        = domain.KickSession
	Tap                = domain.Tap
	ContractionSession = domain.ContractionSession
	Contraction        = domain.Contraction
	HospitalBagItem    = domain.HospitalBagItem
	FeedingRecord      = domain.FeedingRecord
	Export             = domain.Export
)

type HistoryInput struct {
	Since  *int64
	Before *int64
	Limit  int
}

type KickSessionOutput struct {
	Session KickSession
	Resumed bool
}

type TodayKicksOutput struct {
	Date         string
	TotalKicks   int
	Sessions     []KickSession
	Active       *KickSession
	GoalCount    int
	MergeMinutes int
}

type ContractionSessionOutput struct {
	Session ContractionSession
	Resumed bool
}

type StopContractionOutput struct {
	Contraction Contraction
	Session     ContractionSession
}

type ContractionSessionDetail struct {
	Session      ContractionSession
	Contractions []Contraction
}

type StartFeedingInput struct {
	Type     string
	VolumeMl *int
	Notes    *string
}

type UpdateFeedingInput struct {
	ID       string
	VolumeMl *int
	Notes    *string
}

type FeedingOutput struct {
	Record  FeedingRecord
	Applied bool
}

type LastFeedingOutput struct {
	Record FeedingRecord
	Found  bool
}

type AddBagItemInput struct {
	Category string
	Name     string
}

type BagItemOutput struct {
	Item    HospitalBagItem
	Applied bool
}

type DayOutput struct {
	Date                string
	TotalKicks          int
	KickSessions        []KickSession
	ContractionSessions []ContractionSession
	Feedings            []FeedingRecord
}

type TodaySummaryOutput struct {
	Date              string
	TotalKicks        int
	ActiveKickSession *KickSession
	Feedings          int
	LastFeeding       *FeedingRecord
	OpenFeeding       *FeedingRecord
	ContractionAlert  bool
	BagChecked        int
	BagTotal          int
}
