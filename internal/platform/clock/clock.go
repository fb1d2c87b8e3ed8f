package clock

import "time"

// Clock abstracts time to keep reminder ticks and local-day boundaries
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports wall time in Loc, falling back to time.Local.
type SystemClock struct {
	Loc *time.Location
}

func (c SystemClock) Now() time.Time {
	loc := c.Loc
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc)
}

// DayBounds returns the [start, end] millisecond range of the local calendar
// day containing ts. end is inclusive (23:59:59.999).
func DayBounds(ts int64, loc *time.Location) (int64, int64) {
	if loc == nil {
		loc = time.Local
	}
	t := time.UnixMilli(ts).In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	next := start.AddDate(0, 0, 1)
	return start.UnixMilli(), next.UnixMilli() - 1
}

// DateKey formats t as YYYY-MM-DD in its own location.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
