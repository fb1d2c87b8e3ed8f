package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cradle/internal/platform/logger"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client speaks JSON to the backend. Every request is bounded by
// Config.Timeout; an elapsed bound is reported as StatusTimeout, distinct
// from other transport failures.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	log     *logger.Logger
}

func New(log *logger.Logger, cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = "http://localhost:8787"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		baseURL: base,
		timeout: cfg.Timeout,
		http:    &http.Client{},
		log:     log.With("client", "BackendClient"),
	}
}

// Do sends body (nil for none) and decodes a 2xx response into out (nil to
// discard). bearer, when non-empty, is sent as the Authorization token.
func (c *Client) Do(ctx context.Context, method, path string, body any, bearer string, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Status: StatusNetwork, Kind: KindDecode, Message: "encode request", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Status: StatusNetwork, Kind: KindNetwork, Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			c.log.Warn("backend request timed out", "method", method, "path", path, "timeout", c.timeout)
			return &Error{Status: StatusTimeout, Kind: KindTimeout, Message: "request timed out", Err: err}
		}
		return &Error{Status: StatusNetwork, Kind: KindNetwork, Message: "network unavailable", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	c.log.Debug("backend request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(started))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return &Error{Status: StatusNetwork, Kind: KindNetwork, Message: "read response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := KindServer
		if resp.StatusCode == http.StatusUnauthorized {
			kind = KindAuth
		}
		return &Error{Status: resp.StatusCode, Kind: kind, Message: serverMessage(raw, resp.Status)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Status: resp.StatusCode, Kind: KindDecode, Message: "decode response", Err: err}
	}
	return nil
}

func serverMessage(raw []byte, fallback string) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 200 {
		return text
	}
	return fmt.Sprintf("request failed: %s", fallback)
}
