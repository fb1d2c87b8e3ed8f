package dto

import "time"

// Suppressed names a category that was due but held back and why: "quota",
// "quiet" or "failed".
type Suppressed struct {
	Category string `json:"category"`
	Reason   string `json:"reason"`
}

// TickReport describes one evaluation pass. Skipped is set when the pass
// ended before any category was evaluated.
type TickReport struct {
	At         time.Time    `json:"at"`
	UserID     string       `json:"userId,omitempty"`
	Skipped    string       `json:"skipped,omitempty"`
	QuietHours bool         `json:"quietHours"`
	Sent       []string     `json:"sent"`
	Suppressed []Suppressed `json:"suppressed"`
}

type EngineStatus struct {
	Running    bool          `json:"running"`
	Interval   time.Duration `json:"interval"`
	Ticks      int64         `json:"ticks"`
	LastTick   *TickReport   `json:"lastTick,omitempty"`
	LastError  string        `json:"lastError,omitempty"`
	SignedIn   bool          `json:"signedIn"`
	Permission string        `json:"permission"`
}
