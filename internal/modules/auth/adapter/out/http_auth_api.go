package out

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"cradle/internal/modules/auth/domain"
	authout "cradle/internal/modules/auth/port/out"
	apperrors "cradle/internal/platform/errors"
	"cradle/internal/platform/httpapi"
)

// HTTPAuthAPI calls the auth endpoints on the plain client: a 401 here is a
// wrong password or a dead refresh token, never a reason to refresh.
type HTTPAuthAPI struct {
	client *httpapi.Client
}

func NewHTTPAuthAPI(client *httpapi.Client) *HTTPAuthAPI {
	return &HTTPAuthAPI{client: client}
}

var _ authout.AuthAPI = (*HTTPAuthAPI)(nil)

type sessionResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         domain.User `json:"user"`
}

func (r sessionResponse) session() (domain.Session, error) {
	s := domain.Session{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken, User: r.User}
	if !s.Valid() {
		return domain.Session{}, &httpapi.Error{Status: http.StatusOK, Kind: httpapi.KindDecode, Message: "session response without token or user"}
	}
	return s, nil
}

func (a *HTTPAuthAPI) Login(ctx context.Context, phone, password string) (domain.Session, error) {
	var resp sessionResponse
	body := map[string]string{"phone": phone, "password": password}
	if err := a.client.Do(ctx, http.MethodPost, "/v1/auth/login", body, "", &resp); err != nil {
		return domain.Session{}, err
	}
	return resp.session()
}

func (a *HTTPAuthAPI) Register(ctx context.Context, phone, password, nickname string) (domain.Session, error) {
	var resp sessionResponse
	body := map[string]string{"phone": phone, "password": password}
	if nickname != "" {
		body["nickname"] = nickname
	}
	if err := a.client.Do(ctx, http.MethodPost, "/v1/auth/register", body, "", &resp); err != nil {
		return domain.Session{}, err
	}
	return resp.session()
}

func (a *HTTPAuthAPI) Refresh(ctx context.Context, refreshToken string) (domain.Tokens, error) {
	var resp domain.Tokens
	body := map[string]string{"refreshToken": refreshToken}
	if err := a.client.Do(ctx, http.MethodPost, "/v1/auth/refresh", body, "", &resp); err != nil {
		return domain.Tokens{}, err
	}
	if strings.TrimSpace(resp.AccessToken) == "" {
		return domain.Tokens{}, &httpapi.Error{Status: http.StatusOK, Kind: httpapi.KindDecode, Message: "refresh response without access token"}
	}
	return resp, nil
}

// HTTPInviteAPI goes through the authorized client so an expired token is
// refreshed once before the bind is retried.
type HTTPInviteAPI struct {
	client *httpapi.AuthorizedClient
}

func NewHTTPInviteAPI(client *httpapi.AuthorizedClient) *HTTPInviteAPI {
	return &HTTPInviteAPI{client: client}
}

var _ authout.InviteAPI = (*HTTPInviteAPI)(nil)

func (a *HTTPInviteAPI) Bind(ctx context.Context, code string) (authout.BindResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return authout.BindResult{}, fmt.Errorf("%w: invite code is required", apperrors.ErrInvalidInput)
	}
	var resp struct {
		InviteBound bool   `json:"inviteBound"`
		Code        string `json:"code"`
	}
	if err := a.client.Do(ctx, http.MethodPost, "/v1/invites/bind", map[string]string{"code": code}, &resp); err != nil {
		return authout.BindResult{}, err
	}
	return authout.BindResult{InviteBound: resp.InviteBound, Code: resp.Code}, nil
}
