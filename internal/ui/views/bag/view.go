package bag

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	recordsdto "cradle/internal/modules/records/dto"
	"cradle/internal/ui/theme"
)

type Port interface {
	BagList(ctx context.Context) ([]recordsdto.HospitalBagItem, error)
	BagToggle(ctx context.Context, id string) (recordsdto.BagItemOutput, error)
}

type LoadedMsg struct {
	Items []recordsdto.HospitalBagItem
	Err   error
}

type ToggledMsg struct {
	Out recordsdto.BagItemOutput
	Err error
}

type bagItem struct{ item recordsdto.HospitalBagItem }

func (i bagItem) Title() string {
	mark := "[ ]"
	if i.item.Checked {
		mark = "[x]"
	}
	return mark + " " + i.item.Name
}

func (i bagItem) Description() string {
	if i.item.IsCustom {
		return string(i.item.Category) + " · custom"
	}
	return string(i.item.Category)
}

func (i bagItem) FilterValue() string { return i.item.Name }

type Model struct {
	port Port
	list list.Model
	err  error
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Hospital bag"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		items, err := m.port.BagList(context.Background())
		return LoadedMsg{Items: items, Err: err}
	}
}

// Toggle flips the selected item.
func (m Model) Toggle() tea.Cmd {
	id, ok := m.SelectedID()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		out, err := m.port.BagToggle(context.Background(), id)
		return ToggledMsg{Out: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
	case LoadedMsg:
		m.err = msg.Err
		if msg.Err != nil {
			m.list.Title = "Hospital bag: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Items))
		checked := 0
		for i, it := range msg.Items {
			items[i] = bagItem{item: it}
			if it.Checked {
				checked++
			}
		}
		m.list.Title = fmt.Sprintf("Hospital bag %d/%d", checked, len(msg.Items))
		return m, m.list.SetItems(items)
	case ToggledMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		return m, m.Reload()
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string { return m.list.View() }

func (m Model) SelectedID() (string, bool) {
	if it, ok := m.list.SelectedItem().(bagItem); ok {
		return it.item.ID, true
	}
	return "", false
}

func (m Model) Filtering() bool { return m.list.FilterState() == list.Filtering }

// Err is the last failed load or toggle.
func (m Model) Err() error { return m.err }
