package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cradle/internal/ui/theme"
)

type PaletteSubmitMsg struct{ Input string }

type PaletteCancelMsg struct{}

// Command is one entry of the ':' prompt. Args is shown after the name and
// is not completed.
type Command struct {
	Name string
	Args string
	Help string
}

// Commands must stay in sync with executePalette in app/model.go.
var Commands = []Command{
	{Name: "kick:start", Help: "start or resume today's count"},
	{Name: "kick:tap", Help: "record a movement"},
	{Name: "kick:undo", Help: "remove the last tap"},
	{Name: "kick:end", Help: "finish the count"},
	{Name: "contraction:start", Help: "open a timing session"},
	{Name: "contraction:begin", Help: "a contraction started"},
	{Name: "contraction:stop", Help: "it stopped, check 5-1-1"},
	{Name: "contraction:end", Help: "close the session"},
	{Name: "feed:start", Args: "<breast_left|breast_right|pump_left|pump_right|pump_both>", Help: "timed feed"},
	{Name: "feed:end", Help: "stop the timed feed"},
	{Name: "feed:bottle", Args: "[ml]", Help: "log a bottle"},
	{Name: "bag:add", Args: "<mom|baby|documents> <name>", Help: "custom bag item"},
	{Name: "bag:rm", Help: "remove the selected custom item"},
	{Name: "journal:write", Help: "write today's note"},
	{Name: "refresh", Help: "reload every tab"},
}

const maxSuggestions = 5

// Palette is the ':' prompt. Tab completes the first matching command and
// up recalls the previous submission.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
	last    string
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Prompt = ": "
	ti.Placeholder = "kick:tap"
	ti.CharLimit = 128
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.Reset()
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case tea.KeyEnter:
			line := strings.TrimSpace(p.input.Value())
			p.close()
			if line != "" {
				p.last = line
			}
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: line} }
		case tea.KeyTab:
			if m := suggest(p.input.Value(), 1); len(m) == 1 {
				p.input.SetValue(m[0].Name + " ")
				p.input.CursorEnd()
			}
			return p, nil
		case tea.KeyUp:
			if p.last != "" {
				p.input.SetValue(p.last)
				p.input.CursorEnd()
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	lines := []string{theme.Title.Render("Command"), p.input.View()}
	for _, c := range suggest(p.input.Value(), maxSuggestions) {
		entry := c.Name
		if c.Args != "" {
			entry += " " + c.Args
		}
		lines = append(lines, theme.Hot.Render(entry)+"  "+theme.Muted.Render(c.Help))
	}
	w := p.width
	if w < 20 {
		w = 64
	}
	return theme.CommandBar.Width(w - 2).Render(strings.Join(lines, "\n"))
}

// suggest lists up to limit commands whose name starts with the first word of
// line. Once arguments follow the name only that command is shown.
func suggest(line string, limit int) []Command {
	word := strings.ToLower(strings.TrimLeft(line, " "))
	exact := false
	if i := strings.IndexByte(word, ' '); i >= 0 {
		word, exact = word[:i], true
	}
	var out []Command
	for _, c := range Commands {
		if exact && c.Name != word {
			continue
		}
		if !strings.HasPrefix(c.Name, word) {
			continue
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out
}
