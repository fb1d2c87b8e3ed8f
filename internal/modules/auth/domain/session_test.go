package domain

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()})
	raw, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return raw
}

func TestAccessExpired(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "future exp", token: signed(t, now.Add(time.Hour)), want: false},
		{name: "past exp", token: signed(t, now.Add(-time.Minute)), want: true},
		{name: "opaque token", token: "not-a-jwt", want: false},
		{name: "empty", token: "", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Session{AccessToken: tc.token, User: User{ID: "u1"}}
			if got := s.AccessExpired(now); got != tc.want {
				t.Fatalf("AccessExpired=%v want %v", got, tc.want)
			}
		})
	}
}

func TestWithTokensKeepsRefreshWhenOmitted(t *testing.T) {
	t.Parallel()
	s := Session{AccessToken: "a1", RefreshToken: "r1", User: User{ID: "u1"}}
	next := s.WithTokens(Tokens{AccessToken: "a2"})
	if next.AccessToken != "a2" || next.RefreshToken != "r1" || next.User.ID != "u1" {
		t.Fatalf("unexpected session %+v", next)
	}
	if !next.Valid() {
		t.Fatalf("expected valid session")
	}
	if (Session{AccessToken: "a"}).Valid() {
		t.Fatalf("session without user must be invalid")
	}
}
