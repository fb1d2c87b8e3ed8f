package domain

// Timestamps are Unix milliseconds; nullable fields are pointers so the JSON
// shape matches what the backend stores in a snapshot.

type Tap struct {
	Timestamp int64 `json:"timestamp"`
	WindowID  int64 `json:"windowId"`
}

type KickSession struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	StartedAt   int64  `json:"startedAt"`
	EndedAt     *int64 `json:"endedAt"`
	Taps        []Tap  `json:"taps"`
	KickCount   int    `json:"kickCount"`
	GoalReached bool   `json:"goalReached"`
}

func (s KickSession) Active() bool { return s.EndedAt == nil }

type ContractionSession struct {
	ID               string `json:"id"`
	UserID           string `json:"userId"`
	StartedAt        int64  `json:"startedAt"`
	EndedAt          *int64 `json:"endedAt"`
	ContractionCount int    `json:"contractionCount"`
	AvgDuration      *int64 `json:"avgDuration"`
	AvgInterval      *int64 `json:"avgInterval"`
	AlertTriggered   bool   `json:"alertTriggered"`
}

func (s ContractionSession) Active() bool { return s.EndedAt == nil }

type Contraction struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	StartedAt int64  `json:"startedAt"`
	EndedAt   *int64 `json:"endedAt"`
	Duration  *int64 `json:"duration"`
	Interval  *int64 `json:"interval"`
}

type BagCategory string

const (
	BagMom       BagCategory = "mom"
	BagBaby      BagCategory = "baby"
	BagDocuments BagCategory = "documents"
)

func (c BagCategory) Valid() bool {
	switch c {
	case BagMom, BagBaby, BagDocuments:
		return true
	}
	return false
}

type HospitalBagItem struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Category  BagCategory `json:"category"`
	Name      string      `json:"name"`
	Checked   bool        `json:"checked"`
	IsCustom  bool        `json:"isCustom"`
	SortOrder int         `json:"sortOrder"`
	CreatedAt int64       `json:"createdAt"`
}

type FeedingType string

const (
	FeedBreastLeft  FeedingType = "breast_left"
	FeedBreastRight FeedingType = "breast_right"
	FeedBottle      FeedingType = "bottle"
	FeedPumpLeft    FeedingType = "pump_left"
	FeedPumpRight   FeedingType = "pump_right"
	FeedPumpBoth    FeedingType = "pump_both"
)

func (t FeedingType) Valid() bool {
	switch t {
	case FeedBreastLeft, FeedBreastRight, FeedBottle, FeedPumpLeft, FeedPumpRight, FeedPumpBoth:
		return true
	}
	return false
}

// Timed reports whether records of this type stay open until ended.
func (t FeedingType) Timed() bool { return t != FeedBottle }

type FeedingRecord struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Type      FeedingType `json:"type"`
	StartedAt int64       `json:"startedAt"`
	EndedAt   *int64      `json:"endedAt"`
	Duration  *int64      `json:"duration"`
	VolumeMl  *int        `json:"volumeMl"`
	Notes     *string     `json:"notes"`
}

func (r FeedingRecord) Open() bool { return r.EndedAt == nil && r.Type.Timed() }

// RangeQuery selects records with StartedAt in [Since, Before), newest first.
// Nil bounds are open; Limit <= 0 means no cap.
type RangeQuery struct {
	Since  *int64
	Before *int64
	Limit  int
}

// Export is every record one user owns, as uploaded in a snapshot.
type Export struct {
	KickSessions        []KickSession        `json:"sessions"`
	ContractionSessions []ContractionSession `json:"contractionSessions"`
	Contractions        []Contraction        `json:"contractions"`
	HospitalBagItems    []HospitalBagItem    `json:"hospitalBagItems"`
	FeedingRecords      []FeedingRecord      `json:"feedingRecords"`
}

func Int64(v int64) *int64 { return &v }
