package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	recordsdto "cradle/internal/modules/records/dto"
	"cradle/internal/ui/theme"
)

const limit = 20

type Port interface {
	KickHistory(ctx context.Context, limit int) ([]recordsdto.KickSession, error)
	FeedHistory(ctx context.Context, limit int) ([]recordsdto.FeedingRecord, error)
	ContractionHistory(ctx context.Context, limit int) ([]recordsdto.ContractionSession, error)
}

type LoadedMsg struct {
	Kicks        []recordsdto.KickSession
	Feedings     []recordsdto.FeedingRecord
	Contractions []recordsdto.ContractionSession
	Err          error
}

// Model lists recent records of every kind, newest first, in a scrollable
// pane.
type Model struct {
	port     Port
	viewport viewport.Model
	last     LoadedMsg
}

func New(port Port) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Padding(0, 1)
	return Model{port: port, viewport: vp}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		kicks, err := m.port.KickHistory(ctx, limit)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		feeds, err := m.port.FeedHistory(ctx, limit)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		cons, err := m.port.ContractionHistory(ctx, limit)
		return LoadedMsg{Kicks: kicks, Feedings: feeds, Contractions: cons, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height
	case LoadedMsg:
		m.last = msg
		m.viewport.SetContent(Render(msg))
		m.viewport.GotoTop()
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string { return m.viewport.View() }

// Render formats a loaded history as plain styled text.
func Render(h LoadedMsg) string {
	if h.Err != nil {
		return theme.Alert.Render("Error: " + h.Err.Error())
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Kick sessions") + "\n")
	if len(h.Kicks) == 0 {
		sb.WriteString(theme.Muted.Render("  none yet") + "\n")
	}
	for _, k := range h.Kicks {
		goal := ""
		if k.GoalReached {
			goal = theme.Good.Render("  ✓")
		}
		sb.WriteString(fmt.Sprintf("  %s  %s  %d kicks%s\n", stamp(k.StartedAt), span(k.StartedAt, k.EndedAt), k.KickCount, goal))
	}

	sb.WriteString("\n" + theme.Title.Render("Feedings") + "\n")
	if len(h.Feedings) == 0 {
		sb.WriteString(theme.Muted.Render("  none yet") + "\n")
	}
	for _, f := range h.Feedings {
		line := fmt.Sprintf("  %s  %-12s", stamp(f.StartedAt), f.Type)
		if f.VolumeMl != nil {
			line += fmt.Sprintf("  %d ml", *f.VolumeMl)
		}
		if f.Duration != nil {
			line += "  " + (time.Duration(*f.Duration) * time.Millisecond).Round(time.Second).String()
		} else if f.Open() {
			line += theme.Hot.Render("  running")
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n" + theme.Title.Render("Contraction sessions") + "\n")
	if len(h.Contractions) == 0 {
		sb.WriteString(theme.Muted.Render("  none yet") + "\n")
	}
	for _, c := range h.Contractions {
		line := fmt.Sprintf("  %s  %s  %d contractions", stamp(c.StartedAt), span(c.StartedAt, c.EndedAt), c.ContractionCount)
		if c.AlertTriggered {
			line += theme.Alert.Render("  5-1-1")
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func stamp(ms int64) string { return time.UnixMilli(ms).Format("01-02 15:04") }

func span(start int64, end *int64) string {
	if end == nil {
		return time.UnixMilli(start).Format("15:04") + "–now"
	}
	return time.UnixMilli(start).Format("15:04") + "–" + time.UnixMilli(*end).Format("15:04")
}
