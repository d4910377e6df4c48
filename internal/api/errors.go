package api

import (
	"errors"
	"fmt"
)

// Error is a non-2xx reply from the backend.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	// Message is the backend's "message" (or "error") field, when it sent one.
	Message string
	Body    string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" {
		return fmt.Sprintf("api: %s %s: %s: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("api: %s %s: %s", e.Method, e.Path, e.Status)
}

// StatusCode returns the HTTP status of err when it is an *Error, else 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// UserMessage picks the text to show the user: the backend message when present,
// otherwise fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
