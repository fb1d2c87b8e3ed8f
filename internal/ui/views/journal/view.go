package journal

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	journaldto "cradle/internal/modules/journal/dto"
	"cradle/internal/ui/theme"
)

type Port interface {
	Show(ctx context.Context, at time.Time) (journaldto.PreviewOutput, error)
	Write(ctx context.Context, at time.Time) (journaldto.WriteOutput, error)
}

type PreviewMsg struct {
	Out journaldto.PreviewOutput
	Err error
}

type WrittenMsg struct {
	Out journaldto.WriteOutput
	Err error
}

// Model previews today's journal note as rendered markdown.
type Model struct {
	port     Port
	viewport viewport.Model
	spinner  spinner.Model
	loading  bool
	date     string
	width    int
	height   int
}

func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, viewport: viewport.New(0, 0), spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd { return tea.Batch(m.Reload(), m.spinner.Tick) }

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Show(context.Background(), time.Now())
		return PreviewMsg{Out: out, Err: err}
	}
}

// Save writes today's note to disk and then reloads the preview.
func (m Model) Save() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Write(context.Background(), time.Now())
		return WrittenMsg{Out: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 1
	case PreviewMsg:
		m.loading = false
		if msg.Err != nil {
			m.viewport.SetContent(theme.Alert.Render("Error: " + msg.Err.Error()))
			return m, nil
		}
		m.date = msg.Out.Date
		content := msg.Out.Rendered
		if content == "" {
			content = msg.Out.Markdown
		}
		m.viewport.SetContent(content)
		m.viewport.GotoTop()
		return m, nil
	case WrittenMsg:
		if msg.Err == nil {
			return m, m.Reload()
		}
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Rendering journal…")
	}
	footer := theme.Muted.Render(m.date + "  w: write note")
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}
