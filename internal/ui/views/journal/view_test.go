package journal

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	journaldto "cradle/internal/modules/journal/dto"
)

type fakePort struct{ writes int }

func (f *fakePort) Show(context.Context, time.Time) (journaldto.PreviewOutput, error) {
	return journaldto.PreviewOutput{Date: "2026-03-01", Markdown: "# Kicks\n\n- 7 kicks"}, nil
}

func (f *fakePort) Write(context.Context, time.Time) (journaldto.WriteOutput, error) {
	f.writes++
	return journaldto.WriteOutput{Path: "/tmp/x.md", Date: "2026-03-01", Created: true}, nil
}

func TestPreviewFallsBackToMarkdown(t *testing.T) {
	t.Parallel()
	m := New(&fakePort{})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m, _ = m.Update(m.Reload()())
	out := m.View()
	if !strings.Contains(out, "7 kicks") || !strings.Contains(out, "2026-03-01") {
		t.Fatalf("unexpected view:\n%s", out)
	}
}

func TestSaveReloadsPreview(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := New(port)
	m, cmd := m.Update(m.Save()())
	if port.writes != 1 {
		t.Fatalf("writes = %d", port.writes)
	}
	if cmd == nil {
		t.Fatalf("expected reload after write")
	}
	if _, ok := cmd().(PreviewMsg); !ok {
		t.Fatalf("expected PreviewMsg")
	}
}
