package dto

import "cradle/internal/modules/auth/domain"

// GuestUserID scopes data created while nobody is signed in. It is never
// sent to the backend.
const GuestUserID = "local-guest"

type User = domain.User

type EventKind string

const (
	SessionCreated   EventKind = "created"
	SessionRefreshed EventKind = "refreshed"
	SessionCleared   EventKind = "cleared"
)

// SessionEvent is delivered to subscribers after the stored session changed.
// User is nil for SessionCleared. External marks a change another process
// made to the shared store, noticed on a later read.
type SessionEvent struct {
	Kind     EventKind
	User     *User
	External bool
}

type LoginInput struct {
	Phone    string
	Password string
}

type RegisterInput struct {
	Phone    string
	Password string
	Nickname string
}

type SessionOutput struct {
	User User
}

type WhoAmIOutput struct {
	SignedIn bool
	User     User
}

type BindInviteOutput struct {
	InviteBound  bool
	AlreadyBound bool
	Code         string
}
