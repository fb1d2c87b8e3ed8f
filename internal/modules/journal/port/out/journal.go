package out

import (
	"context"

	authdto "cradle/internal/modules/auth/dto"
)

// NoteStore reads and writes journal notes by path relative to the journal
// root.
type NoteStore interface {
	Read(ctx context.Context, rel string) (content string, found bool, err error)
	Write(ctx context.Context, rel, content string) (abs string, err error)
}

type Renderer interface {
	Render(markdown string) (string, error)
}

type Profile interface {
	CurrentUser(ctx context.Context) (authdto.User, bool)
}
