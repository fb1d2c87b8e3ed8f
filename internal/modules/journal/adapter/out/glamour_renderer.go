package out

import (
	"github.com/charmbracelet/glamour"

	journalout "cradle/internal/modules/journal/port/out"
)

// GlamourRenderer styles markdown for the terminal. style is a glamour
// standard style name such as "dark", "light" or "notty".
type GlamourRenderer struct {
	style string
	width int
}

func NewGlamourRenderer(style string, width int) *GlamourRenderer {
	if style == "" {
		style = "dark"
	}
	return &GlamourRenderer{style: style, width: width}
}

var _ journalout.Renderer = (*GlamourRenderer)(nil)

func (r *GlamourRenderer) Render(md string) (string, error) {
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(r.width),
	)
	if err != nil {
		return "", err
	}
	return tr.Render(md)
}
