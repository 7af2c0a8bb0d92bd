package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized signals that the backend rejected the bearer token
	// or the supplied credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable signals a transport-level failure (connection refused,
	// timeout, DNS); the request may succeed if retried later.
	ErrUnavailable = errors.New("server unavailable")

	// ErrNotFound signals a 404 from the backend.
	ErrNotFound = errors.New("not found")
)

// Error is a normalized backend failure. Detail carries the server-supplied
// message when one was present in the response body.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Is maps HTTP statuses onto the package sentinels so callers can use
// errors.Is without inspecting status codes.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == 401
	case ErrNotFound:
		return e.Status == 404
	}
	return false
}
