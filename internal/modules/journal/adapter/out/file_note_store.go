package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	journalout "cradle/internal/modules/journal/port/out"
)

type FileNoteStore struct {
	root string
}

func NewFileNoteStore(root string) *FileNoteStore {
	return &FileNoteStore{root: root}
}

var _ journalout.NoteStore = (*FileNoteStore)(nil)

func (s *FileNoteStore) resolve(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("note path %q escapes journal root", rel)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *FileNoteStore) Read(_ context.Context, rel string) (string, bool, error) {
	p, err := s.resolve(rel)
	if err != nil {
		return "", false, err
	}
	raw, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read note: %w", err)
	}
	return string(raw), true, nil
}

// Write replaces the note through a temp file so a crash never leaves half a
// note behind.
func (s *FileNoteStore) Write(_ context.Context, rel, content string) (string, error) {
	p, err := s.resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write note: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("replace note: %w", err)
	}
	return p, nil
}
