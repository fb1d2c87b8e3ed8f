package domain

import (
	"fmt"
	"strings"
	"time"

	recordsdto "cradle/internal/modules/records/dto"
)

// BlockName marks the generated part of a journal note. Text outside it
// belongs to the user and survives regeneration.
const BlockName = "cradle:day"

// Facts are the front matter keys the generator owns. Other keys are left
// alone.
func Facts(day recordsdto.DayOutput) map[string]any {
	alert := false
	for _, s := range day.ContractionSessions {
		alert = alert || s.AlertTriggered
	}
	return map[string]any{
		"date":              day.Date,
		"kicks":             day.TotalKicks,
		"kick_sessions":     len(day.KickSessions),
		"feedings":          len(day.Feedings),
		"contraction_alert": alert,
	}
}

// Summary renders one day as markdown, oldest entries first.
func Summary(day recordsdto.DayOutput, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", day.Date)

	b.WriteString("## Kicks\n\n")
	if len(day.KickSessions) == 0 {
		b.WriteString("_No kick sessions._\n")
	}
	for i := len(day.KickSessions) - 1; i >= 0; i-- {
		s := day.KickSessions[i]
		line := fmt.Sprintf("- %s · %d kicks", span(s.StartedAt, s.EndedAt, loc), s.KickCount)
		if s.GoalReached {
			line += " · goal reached"
		}
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(&b, "\nTotal: **%d**\n\n", day.TotalKicks)

	b.WriteString("## Feedings\n\n")
	if len(day.Feedings) == 0 {
		b.WriteString("_No feedings._\n")
	}
	for i := len(day.Feedings) - 1; i >= 0; i-- {
		f := day.Feedings[i]
		line := fmt.Sprintf("- %s · %s", span(f.StartedAt, f.EndedAt, loc), strings.ReplaceAll(string(f.Type), "_", " "))
		if f.Duration != nil && *f.Duration > 0 {
			line += fmt.Sprintf(" · %d min", *f.Duration/60000)
		}
		if f.VolumeMl != nil {
			line += fmt.Sprintf(" · %d ml", *f.VolumeMl)
		}
		if f.Notes != nil && *f.Notes != "" {
			line += " · " + *f.Notes
		}
		b.WriteString(line + "\n")
	}

	if len(day.ContractionSessions) > 0 {
		b.WriteString("\n## Contractions\n\n")
		for i := len(day.ContractionSessions) - 1; i >= 0; i-- {
			s := day.ContractionSessions[i]
			line := fmt.Sprintf("- %s · %d contractions", span(s.StartedAt, s.EndedAt, loc), s.ContractionCount)
			if s.AvgInterval != nil {
				line += fmt.Sprintf(" · every %s", minSec(*s.AvgInterval))
			}
			if s.AvgDuration != nil {
				line += fmt.Sprintf(" · lasting %s", minSec(*s.AvgDuration))
			}
			if s.AlertTriggered {
				line += " · **5-1-1 reached**"
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func span(start int64, end *int64, loc *time.Location) string {
	from := time.UnixMilli(start).In(loc).Format("15:04")
	if end == nil {
		return from + "–now"
	}
	to := time.UnixMilli(*end).In(loc).Format("15:04")
	if to == from {
		return from
	}
	return from + "–" + to
}

func minSec(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
