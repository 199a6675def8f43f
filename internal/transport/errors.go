package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork means no response was received at all (connectivity,
	// DNS, timeout). Match with errors.Is.
	ErrNetwork = errors.New("network error, check your connection")

	// ErrAuthExpired means the refresh cycle failed and stored
	// credentials were cleared. The session layer must always see this
	// regardless of fallback wrapping elsewhere.
	ErrAuthExpired = errors.New("authentication expired, please log in again")
)

// APIError is a non-2xx response carrying the server-supplied message
// when one was present. Match with errors.As.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}
