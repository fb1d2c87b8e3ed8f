package app

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "cradle/internal/modules/auth/dto"
	journaldto "cradle/internal/modules/journal/dto"
	recordsdto "cradle/internal/modules/records/dto"
	settingsdto "cradle/internal/modules/settings/dto"
	"cradle/internal/ui/components"
	"cradle/internal/ui/theme"
	bagview "cradle/internal/ui/views/bag"
	historyview "cradle/internal/ui/views/history"
	journalview "cradle/internal/ui/views/journal"
	todayview "cradle/internal/ui/views/today"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type recordsPort interface {
	todayview.Port
	bagview.Port
	historyview.Port

	KickStart(ctx context.Context) (recordsdto.KickSessionOutput, error)
	KickTap(ctx context.Context) (recordsdto.KickSession, error)
	KickUndo(ctx context.Context) (recordsdto.KickSession, error)
	KickEnd(ctx context.Context) (recordsdto.KickSession, error)
	ContractionStart(ctx context.Context) (recordsdto.ContractionSessionOutput, error)
	ContractionBegin(ctx context.Context) (recordsdto.Contraction, error)
	ContractionStop(ctx context.Context) (recordsdto.StopContractionOutput, error)
	ContractionEnd(ctx context.Context) (recordsdto.ContractionSession, error)
	FeedStart(ctx context.Context, kind string, notes *string) (recordsdto.FeedingRecord, error)
	FeedEnd(ctx context.Context) (recordsdto.FeedingRecord, error)
	FeedBottle(ctx context.Context, volumeMl *int, notes *string) (recordsdto.FeedingRecord, error)
	BagAdd(ctx context.Context, category, name string) (recordsdto.HospitalBagItem, error)
	BagRemove(ctx context.Context, id string) (bool, error)
}

type settingsPort interface {
	Show(ctx context.Context) (settingsdto.UserSettings, settingsdto.DeviceSettings, error)
	RecordToolOpen(ctx context.Context, toolID string) error
}

type journalPort interface {
	Show(ctx context.Context, at time.Time) (journaldto.PreviewOutput, error)
	Write(ctx context.Context, at time.Time) (journaldto.WriteOutput, error)
}

type authPort interface {
	WhoAmI(ctx context.Context) (authdto.WhoAmIOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabToday tabID = iota
	tabBag
	tabHistory
	tabJournal
	tabCount
)

var tabLabels = [tabCount]string{"Today", "Bag", "History", "Journal"}

// tabTools are the tool ids recorded when a tab is opened.
var tabTools = [tabCount]string{"today", "hospital-bag", "history", "journal"}

// ─── async messages ───────────────────────────────────────────────────────────

// actionMsg reports the outcome of a recording action. All views reload
// after one.
type actionMsg struct {
	status string
	err    error
}

type whoMsg struct {
	who authdto.WhoAmIOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab       key.Binding
	Help      key.Binding
	Palette   key.Binding
	Quit      key.Binding
	Kick      key.Binding
	KickStart key.Binding
	Undo      key.Binding
	Toggle    key.Binding
	Write     key.Binding
	Refresh   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:   key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Kick:      key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "record kick")),
		KickStart: key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "start kick session")),
		Undo:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo kick")),
		Toggle:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "check bag item")),
		Write:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write journal")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Kick, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Kick, k.KickStart, k.Undo},
		{k.Toggle, k.Write, k.Refresh},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay
// and the command palette; recording goes through the ports and rendering
// through the sub-views.
type Model struct {
	ctx      context.Context
	records  recordsPort
	settings settingsPort
	auth     authPort

	todayView   todayview.Model
	bagView     bagview.Model
	historyView historyview.Model
	journalView journalview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	who       string
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(ctx context.Context, records recordsPort, settings settingsPort, journal journalPort, auth authPort) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if settings != nil {
		if _, device, err := settings.Show(ctx); err == nil {
			theme.Use(theme.ForMode(string(device.ColorMode)))
		}
	}
	return Model{
		ctx:         ctx,
		records:     records,
		settings:    settings,
		auth:        auth,
		todayView:   todayview.New(records),
		bagView:     bagview.New(records),
		historyView: historyview.New(records),
		journalView: journalview.New(journal),
		activeTab:   tabToday,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		who:         "guest",
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.todayView.Init(),
		m.bagView.Init(),
		m.historyView.Init(),
		m.journalView.Init(),
		m.whoCmd(),
		m.toolOpenCmd(m.activeTab),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case whoMsg:
		if msg.err == nil && msg.who.SignedIn {
			m.who = msg.who.User.Nickname
			if m.who == "" {
				m.who = msg.who.User.Phone
			}
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.status = msg.status + ": " + msg.err.Error()
			return m, nil
		}
		m.status = msg.status
		return m, m.reloadAll()

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	// Loaded messages go to their own view regardless of the active tab.
	case todayview.LoadedMsg:
		m.todayView, _ = m.todayView.Update(msg)
		return m, nil
	case historyview.LoadedMsg:
		m.historyView, _ = m.historyView.Update(msg)
		return m, nil
	case bagview.LoadedMsg, bagview.ToggledMsg:
		var cmd tea.Cmd
		m.bagView, cmd = m.bagView.Update(msg)
		return m, tea.Batch(cmd, m.todayView.Reload())
	case journalview.PreviewMsg:
		m.journalView, _ = m.journalView.Update(msg)
		return m, nil
	case journalview.WrittenMsg:
		if msg.Err != nil {
			m.status = "journal: " + msg.Err.Error()
		} else {
			m.status = "journal written: " + msg.Out.Path
		}
		var cmd tea.Cmd
		m.journalView, cmd = m.journalView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabBag && m.bagView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, m.toolOpenCmd(m.activeTab)
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, m.toolOpenCmd(m.activeTab)
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "k":
			return m, m.action("kick recorded", func(ctx context.Context) error {
				_, err := m.records.KickTap(ctx)
				return err
			})
		case "K":
			return m, m.action("kick session started", func(ctx context.Context) error {
				_, err := m.records.KickStart(ctx)
				return err
			})
		case "u":
			return m, m.action("last kick undone", func(ctx context.Context) error {
				_, err := m.records.KickUndo(ctx)
				return err
			})
		case "r":
			return m, m.reloadAll()
		case "w":
			if m.activeTab == tabJournal {
				return m, m.journalView.Save()
			}
		case "enter", " ":
			if m.activeTab == tabBag {
				return m, m.bagView.Toggle()
			}
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabToday:
		m.todayView, tabCmd = m.todayView.Update(msg)
	case tabBag:
		m.bagView, tabCmd = m.bagView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	case tabJournal:
		m.journalView, tabCmd = m.journalView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()

	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabToday:
		return m.todayView.View()
	case tabBag:
		return m.bagView.View()
	case tabHistory:
		return m.historyView.View()
	case tabJournal:
		return m.journalView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "cradle  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := theme.Title.Render(m.who) + "  " + m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).
		Render(left+strings.Repeat(" ", gap)+right)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	r := m.records

	switch parts[0] {
	case "kick:start":
		return m, m.action("kick session started", func(ctx context.Context) error { _, err := r.KickStart(ctx); return err })
	case "kick:tap":
		return m, m.action("kick recorded", func(ctx context.Context) error { _, err := r.KickTap(ctx); return err })
	case "kick:undo":
		return m, m.action("last kick undone", func(ctx context.Context) error { _, err := r.KickUndo(ctx); return err })
	case "kick:end":
		return m, m.action("kick session ended", func(ctx context.Context) error { _, err := r.KickEnd(ctx); return err })

	case "contraction:start":
		return m, m.action("contraction session started", func(ctx context.Context) error { _, err := r.ContractionStart(ctx); return err })
	case "contraction:begin":
		return m, m.action("contraction timing", func(ctx context.Context) error { _, err := r.ContractionBegin(ctx); return err })
	case "contraction:stop":
		ctx := m.ctx
		return m, func() tea.Msg {
			out, err := r.ContractionStop(ctx)
			if err == nil && out.Session.AlertTriggered {
				return actionMsg{status: "5-1-1 pattern reached, contact your care provider"}
			}
			return actionMsg{status: "contraction stopped", err: err}
		}
	case "contraction:end":
		return m, m.action("contraction session ended", func(ctx context.Context) error { _, err := r.ContractionEnd(ctx); return err })

	case "feed:start":
		if len(parts) < 2 {
			m.status = "usage: feed:start <type>"
			return m, nil
		}
		kind := parts[1]
		return m, m.action("feeding started", func(ctx context.Context) error { _, err := r.FeedStart(ctx, kind, nil); return err })
	case "feed:end":
		return m, m.action("feeding ended", func(ctx context.Context) error { _, err := r.FeedEnd(ctx); return err })
	case "feed:bottle":
		var vol *int
		if len(parts) >= 2 {
			v, err := strconv.Atoi(parts[1])
			if err != nil {
				m.status = "invalid volume"
				return m, nil
			}
			vol = &v
		}
		return m, m.action("bottle recorded", func(ctx context.Context) error { _, err := r.FeedBottle(ctx, vol, nil); return err })

	case "bag:add":
		if len(parts) < 3 {
			m.status = "usage: bag:add <category> <name>"
			return m, nil
		}
		category := parts[1]
		name := strings.Join(parts[2:], " ")
		return m, m.action("bag item added", func(ctx context.Context) error { _, err := r.BagAdd(ctx, category, name); return err })
	case "bag:rm":
		id, ok := m.bagView.SelectedID()
		if !ok {
			m.status = "no bag item selected"
			return m, nil
		}
		return m, m.action("bag item removed", func(ctx context.Context) error { _, err := r.BagRemove(ctx, id); return err })

	case "journal:write":
		m.activeTab = tabJournal
		return m, m.journalView.Save()
	case "refresh":
		return m, m.reloadAll()
	}
	m.status = "unknown command: " + parts[0]
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.todayView, _ = m.todayView.Update(sz)
	m.bagView, _ = m.bagView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
	m.journalView, _ = m.journalView.Update(sz)
}

func (m Model) reloadAll() tea.Cmd {
	return tea.Batch(
		m.todayView.Reload(),
		m.bagView.Reload(),
		m.historyView.Reload(),
		m.journalView.Reload(),
	)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) action(status string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionMsg{status: status, err: fn(ctx)}
	}
}

func (m Model) whoCmd() tea.Cmd {
	if m.auth == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		who, err := m.auth.WhoAmI(ctx)
		return whoMsg{who: who, err: err}
	}
}

func (m Model) toolOpenCmd(tab tabID) tea.Cmd {
	if m.settings == nil {
		return nil
	}
	ctx, tool := m.ctx, tabTools[tab]
	return func() tea.Msg {
		_ = m.settings.RecordToolOpen(ctx, tool)
		return nil
	}
}
