package domain

import "time"

// 5-1-1: contractions about five minutes apart, about a minute long, for an
// hour.
const (
	AlertMaxInterval = 5 * time.Minute
	AlertMinDuration = time.Minute
	AlertWindow      = time.Hour
	// alertMinSpan tolerates the last interval that straddles the window edge.
	alertMinSpan = AlertWindow - AlertMaxInterval
)

// IntervalFor returns the ms since the previous contraction's start in the
// same session, or nil for the first one. prior must be ascending.
func IntervalFor(prior []Contraction, startedAt int64) *int64 {
	if len(prior) == 0 {
		return nil
	}
	v := startedAt - prior[len(prior)-1].StartedAt
	return &v
}

// Summarize recomputes the derived fields of a session from its children
// (ascending by start). AlertTriggered is sticky.
func Summarize(s ContractionSession, children []Contraction) ContractionSession {
	s.ContractionCount = len(children)
	s.AvgDuration = meanOf(children, func(c Contraction) *int64 { return c.Duration })
	s.AvgInterval = meanOf(children, func(c Contraction) *int64 { return c.Interval })
	if !s.AlertTriggered && MeetsAlertPattern(children) {
		s.AlertTriggered = true
	}
	return s
}

// MeetsAlertPattern evaluates the trailing hour ending at the latest start.
// Only completed contractions count; the pattern must cover at least 55
// minutes with at least two intervals inside the window.
func MeetsAlertPattern(children []Contraction) bool {
	done := make([]Contraction, 0, len(children))
	for _, c := range children {
		if c.EndedAt != nil && c.Duration != nil {
			done = append(done, c)
		}
	}
	if len(done) < 3 {
		return false
	}
	latest := done[len(done)-1].StartedAt
	from := latest - AlertWindow.Milliseconds()

	var window []Contraction
	for _, c := range done {
		if c.StartedAt >= from {
			window = append(window, c)
		}
	}
	if len(window) < 3 {
		return false
	}
	if latest-window[0].StartedAt < alertMinSpan.Milliseconds() {
		return false
	}

	var durSum int64
	for _, c := range window {
		durSum += *c.Duration
	}
	var ivSum int64
	var ivN int64
	for i := 1; i < len(window); i++ {
		ivSum += window[i].StartedAt - window[i-1].StartedAt
		ivN++
	}
	avgDur := durSum / int64(len(window))
	avgIv := ivSum / ivN
	return avgDur >= AlertMinDuration.Milliseconds() && avgIv <= AlertMaxInterval.Milliseconds()
}

func meanOf(children []Contraction, field func(Contraction) *int64) *int64 {
	var sum, n int64
	for _, c := range children {
		if v := field(c); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / n
	return &avg
}
