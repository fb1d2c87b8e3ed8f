package domain

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AlreadyBoundCode is echoed by the invite endpoint when the account was bound
// before. Binding twice is not an error.
const AlreadyBoundCode = "ALREADY_BOUND"

type User struct {
	ID          string `json:"id"`
	Phone       string `json:"phone"`
	Nickname    string `json:"nickname"`
	InviteBound bool   `json:"inviteBound"`
	CreatedAt   string `json:"createdAt"`
}

// Session is the persisted sign-in state of this device.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s Session) Valid() bool {
	return strings.TrimSpace(s.AccessToken) != "" && strings.TrimSpace(s.User.ID) != ""
}

// WithTokens keeps the user and swaps the token pair. An empty refresh token
// in t keeps the current one.
func (s Session) WithTokens(t Tokens) Session {
	s.AccessToken = t.AccessToken
	if t.RefreshToken != "" {
		s.RefreshToken = t.RefreshToken
	}
	return s
}

// AccessExpired reports whether the access token carries an exp claim that is
// not after now. The signature is not checked; the backend does that. Tokens
// that are not JWTs or have no exp never count as expired.
func (s Session) AccessExpired(now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
