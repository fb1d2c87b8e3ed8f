package domain

// ApplyTap appends a tap at ts to an active session. A tap within
// mergeWindowMs of the first tap of the current window joins that window;
// otherwise it opens a new window identified by its own timestamp. Taps that
// arrive out of order are clamped to the last timestamp so the list stays
// ascending.
func ApplyTap(s KickSession, ts, mergeWindowMs int64, goal int) KickSession {
	taps := append([]Tap(nil), s.Taps...)
	if n := len(taps); n > 0 && ts < taps[n-1].Timestamp {
		ts = taps[n-1].Timestamp
	}
	window := ts
	if n := len(taps); n > 0 {
		anchor := taps[n-1].WindowID
		if ts-anchor < mergeWindowMs {
			window = anchor
		}
	}
	taps = append(taps, Tap{Timestamp: ts, WindowID: window})
	s.Taps = taps
	return Recount(s, goal)
}

// UndoTap drops the most recent tap.
func UndoTap(s KickSession, goal int) KickSession {
	if len(s.Taps) == 0 {
		return s
	}
	s.Taps = append([]Tap(nil), s.Taps[:len(s.Taps)-1]...)
	return Recount(s, goal)
}

// Recount derives KickCount from distinct window ids and GoalReached from
// the goal in force at the time of the last mutation.
func Recount(s KickSession, goal int) KickSession {
	s.KickCount = CountWindows(s.Taps)
	s.GoalReached = goal > 0 && s.KickCount >= goal
	return s
}

func CountWindows(taps []Tap) int {
	seen := make(map[int64]struct{}, len(taps))
	for _, t := range taps {
		seen[t.WindowID] = struct{}{}
	}
	return len(seen)
}

// TotalKicks sums KickCount over sessions.
func TotalKicks(sessions []KickSession) int {
	total := 0
	for _, s := range sessions {
		total += s.KickCount
	}
	return total
}
