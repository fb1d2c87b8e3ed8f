package httpapi

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNetwork Kind = "network"
	KindTimeout Kind = "timeout"
	KindAuth    Kind = "auth"
	KindServer  Kind = "server"
	KindDecode  Kind = "decode"
)

// Status codes used for failures that never reached the server.
const (
	StatusNetwork = 0
	StatusTimeout = 408
)

// Error is the typed failure surfaced to callers of the backend. Status is
// HTTP-like: 0 network, 408 client timeout, 401 login required, >= 400 a
// server-reported failure whose Message is meant for display.
type Error struct {
	Status  int
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "api request failed"
	}
	if e.Message != "" {
		return fmt.Sprintf("api %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("api %s (%d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("api %s (%d)", e.Kind, e.Status)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StatusOf returns the Status of an *Error in err's chain, or -1.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return -1
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
