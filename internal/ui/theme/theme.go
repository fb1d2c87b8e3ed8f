package theme

import "github.com/charmbracelet/lipgloss"

// Palette is one colour set. Mocha is the default; Latte is used when the
// device colour mode is light.
type Palette struct {
	Base, Mantle, Surface0, Surface1 lipgloss.Color
	Text, Subtext0                   lipgloss.Color
	Lavender, Sapphire, Green, Peach lipgloss.Color
	Red                              lipgloss.Color
}

var (
	Mocha = Palette{
		Base: "#1e1e2e", Mantle: "#181825", Surface0: "#313244", Surface1: "#45475a",
		Text: "#cdd6f4", Subtext0: "#a6adc8",
		Lavender: "#b4befe", Sapphire: "#74c7ec", Green: "#a6e3a1", Peach: "#fab387",
		Red: "#f38ba8",
	}
	Latte = Palette{
		Base: "#eff1f5", Mantle: "#e6e9ef", Surface0: "#ccd0da", Surface1: "#bcc0cc",
		Text: "#4c4f69", Subtext0: "#6c6f85",
		Lavender: "#7287fd", Sapphire: "#209fb5", Green: "#40a02b", Peach: "#fe640b",
		Red: "#d20f39",
	}
)

var (
	Base, Mantle, Surface0, Surface1 lipgloss.Color
	Text, Subtext0                   lipgloss.Color
	Lavender, Sapphire, Green, Peach lipgloss.Color
	Red                              lipgloss.Color

	App        lipgloss.Style
	Pane       lipgloss.Style
	PaneActive lipgloss.Style
	Title      lipgloss.Style
	Muted      lipgloss.Style
	Hot        lipgloss.Style
	Good       lipgloss.Style
	Alert      lipgloss.Style
	// CommandBar frames the ':' prompt overlay.
	CommandBar lipgloss.Style
)

func init() { Use(Mocha) }

// Use switches every exported colour and style to p. Call it before any view
// is constructed.
func Use(p Palette) {
	Base, Mantle, Surface0, Surface1 = p.Base, p.Mantle, p.Surface0, p.Surface1
	Text, Subtext0 = p.Text, p.Subtext0
	Lavender, Sapphire, Green, Peach, Red = p.Lavender, p.Sapphire, p.Green, p.Peach, p.Red

	App = lipgloss.NewStyle().
		Background(Base).
		Foreground(Text).
		Padding(1, 2)

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	PaneActive = Pane.BorderForeground(Lavender)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Good = lipgloss.NewStyle().Foreground(Green)
	Alert = lipgloss.NewStyle().Foreground(Red).Bold(true)

	CommandBar = Pane.BorderForeground(Peach).Padding(0, 1)
}

// ForMode maps a device colour mode to a palette.
func ForMode(mode string) Palette {
	if mode == "light" {
		return Latte
	}
	return Mocha
}
