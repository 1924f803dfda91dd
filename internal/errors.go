package internal

import "errors"

// AppError is the error shape returned in API responses.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func NewAppError(code int, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

var (
	// ErrSessionActive is returned when a new session is started while
	// another one is still open.
	ErrSessionActive = errors.New("a sleep session is already active")

	// ErrNoActiveSession marks lifecycle actions invoked with no open
	// session. Callers generally treat it as a no-op, not a failure.
	ErrNoActiveSession = errors.New("no active sleep session")

	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable wraps backend failures on writes and on
	// terminated watch streams.
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrInvalidManualEntry = errors.New("end time must be after start time")
)
