package apperrors

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrCorruptData      = errors.New("stored data is unreadable")
	ErrUnknownBlock     = errors.New("unknown block")
	ErrNoEntitySelected = errors.New("no garden entity selected")
	ErrSessionRunning   = errors.New("focus session is running")
)
