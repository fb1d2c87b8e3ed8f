package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrNoActiveSession     = errors.New("no active session")
	ErrActiveSessionExists = errors.New("active session already exists")
	ErrPresetNotDeletable  = errors.New("preset items cannot be deleted")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrAuthExpired         = errors.New("session expired, login required")
	ErrStorage             = errors.New("storage failure")
)

// Storage marks err as a storage-layer failure while keeping the cause.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrStorage, err)
}
