package xapi

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthExpired marks a 403 from the API: the guest token is no longer
	// accepted and the caller may invalidate it and retry with a fresh one.
	ErrAuthExpired = errors.New("guest token expired or rejected")

	// ErrPostNotFound is returned when a response carries no tweet result
	// with an extractable id.
	ErrPostNotFound = errors.New("no post found in response")
)

// APIError is any non-403 HTTP failure from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 500 {
		body = body[:500] + "..."
	}
	return fmt.Sprintf("api error: status %d, response: %s", e.StatusCode, body)
}
