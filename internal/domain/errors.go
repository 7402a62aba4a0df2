package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound signals an unknown or expired browse session.
	ErrSessionNotFound = errors.New("browse session not found")
	// ErrTooManySessions signals that the session registry is full.
	ErrTooManySessions = errors.New("too many browse sessions")
	// ErrInvalidAction signals a malformed filter action.
	ErrInvalidAction = errors.New("invalid filter action")
	// ErrCategoryNotFound signals a missing taxonomy entry.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrInvalidCatalog signals a malformed category taxonomy.
	ErrInvalidCatalog = errors.New("invalid category catalog")

	// ErrBackendUnavailable signals a marketplace backend outage (5xx, timeout).
	ErrBackendUnavailable = errors.New("marketplace backend unavailable")
	// ErrBackendRejected signals a 4xx answer from the marketplace backend.
	ErrBackendRejected = errors.New("marketplace backend rejected request")
)

// BackendStatusError carries the HTTP status of a failed backend call.
type BackendStatusError struct {
	Status int
	Body   string
}

func (e *BackendStatusError) Error() string {
	return fmt.Sprintf("%s: status %d", e.Unwrap().Error(), e.Status)
}

// Unwrap maps 4xx to ErrBackendRejected and everything else to ErrBackendUnavailable.
func (e *BackendStatusError) Unwrap() error {
	if e.Status >= 400 && e.Status < 500 {
		return ErrBackendRejected
	}
	return ErrBackendUnavailable
}

// NewBackendStatus creates a backend status error.
func NewBackendStatus(status int, body string) error {
	return &BackendStatusError{Status: status, Body: body}
}
