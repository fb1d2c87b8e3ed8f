package today

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	recordsdto "cradle/internal/modules/records/dto"
	"cradle/internal/ui/theme"
)

type Port interface {
	Today(ctx context.Context) (recordsdto.TodaySummaryOutput, error)
	KickToday(ctx context.Context) (recordsdto.TodayKicksOutput, error)
}

type LoadedMsg struct {
	Summary recordsdto.TodaySummaryOutput
	Kicks   recordsdto.TodayKicksOutput
	Err     error
}

// Model is the Today tab: a dashboard of the day's counters.
type Model struct {
	port    Port
	spinner spinner.Model
	summary recordsdto.TodaySummaryOutput
	kicks   recordsdto.TodayKicksOutput
	err     error
	loading bool
	width   int
	height  int
}

func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches fresh counters.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		summary, err := m.port.Today(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		kicks, err := m.port.KickToday(ctx)
		return LoadedMsg{Summary: summary, Kicks: kicks, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.summary = msg.Summary
			m.kicks = msg.Kicks
		}
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading today…")
	}
	if m.err != nil {
		return theme.Alert.Render("Error: " + m.err.Error())
	}
	w := m.width/2 - 2
	if w < 30 {
		w = 30
	}
	left := theme.Pane.Width(w).Render(m.renderKicks())
	right := theme.Pane.Width(w).Render(m.renderCare())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderKicks() string {
	k := m.kicks
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Kicks "+k.Date) + "\n\n")
	sb.WriteString(fmt.Sprintf("%s %d\n", theme.Muted.Render("today: "), k.TotalKicks))
	if k.Active != nil {
		line := fmt.Sprintf("%d / %d", k.Active.KickCount, k.GoalCount)
		if k.Active.GoalReached {
			line = theme.Good.Render(line + "  goal reached")
		} else {
			line = theme.Hot.Render(line)
		}
		sb.WriteString(theme.Muted.Render("active:") + " " + line + "\n")
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("taps within %d min count once", k.MergeMinutes)) + "\n")
	} else {
		sb.WriteString(theme.Muted.Render("no session running  (K to start)") + "\n")
	}
	sb.WriteString(fmt.Sprintf("\n%s %d", theme.Muted.Render("sessions:"), len(k.Sessions)))
	return sb.String()
}

func (m Model) renderCare() string {
	s := m.summary
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Care") + "\n\n")
	sb.WriteString(fmt.Sprintf("%s %d\n", theme.Muted.Render("feedings:"), s.Feedings))
	switch {
	case s.OpenFeeding != nil:
		sb.WriteString(theme.Hot.Render("● "+string(s.OpenFeeding.Type)+" since "+clock(s.OpenFeeding.StartedAt)) + "\n")
	case s.LastFeeding != nil:
		sb.WriteString(theme.Muted.Render("last:     ") + string(s.LastFeeding.Type) + " at " + clock(s.LastFeeding.StartedAt) + "\n")
	}
	sb.WriteString(fmt.Sprintf("%s %d / %d\n", theme.Muted.Render("bag:     "), s.BagChecked, s.BagTotal))
	if s.ContractionAlert {
		sb.WriteString("\n" + theme.Alert.Render("5-1-1 pattern reached: contact your care provider"))
	}
	return sb.String()
}

func clock(ms int64) string {
	return time.UnixMilli(ms).Format("15:04")
}
