package httpapi

import (
	"context"
	"errors"

	apperrors "cradle/internal/platform/errors"
)

// TokenSource supplies bearer tokens for protected calls.
type TokenSource interface {
	// AccessToken returns the current token or apperrors.ErrNotAuthenticated.
	AccessToken(ctx context.Context) (string, error)
	// Refresh exchanges the refresh token. stale is the token that was
	// rejected; implementations coalesce concurrent refreshes.
	Refresh(ctx context.Context, stale string) (string, error)
	// Invalidate tears down the local session.
	Invalidate(ctx context.Context) error
}

// AuthorizedClient retries a protected call exactly once after a 401, using a
// refreshed token. A second 401 or a failed refresh ends the session.
type AuthorizedClient struct {
	client *Client
	tokens TokenSource
}

func NewAuthorized(client *Client, tokens TokenSource) *AuthorizedClient {
	return &AuthorizedClient{client: client, tokens: tokens}
}

func (a *AuthorizedClient) Do(ctx context.Context, method, path string, body any, out any) error {
	token, err := a.tokens.AccessToken(ctx)
	if err != nil {
		return loginRequired(err)
	}
	err = a.client.Do(ctx, method, path, body, token, out)
	if StatusOf(err) != 401 {
		return err
	}

	fresh, err := a.tokens.Refresh(ctx, token)
	if err != nil {
		return loginRequired(err)
	}
	err = a.client.Do(ctx, method, path, body, fresh, out)
	if StatusOf(err) == 401 {
		_ = a.tokens.Invalidate(ctx)
		return loginRequired(apperrors.ErrAuthExpired)
	}
	return err
}

func loginRequired(cause error) error {
	var apiErr *Error
	expired := errors.Is(cause, apperrors.ErrAuthExpired) || errors.Is(cause, apperrors.ErrNotAuthenticated)
	if !expired && errors.As(cause, &apiErr) && apiErr.Status != 401 {
		return apiErr
	}
	return &Error{Status: 401, Kind: KindAuth, Message: "login required", Err: cause}
}
