package apiclient

import (
	"fmt"

	"hotel_reservation/internal/domain"
)

// NetworkError means no response arrived: refused connection, DNS failure or timeout.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: no response from server: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a non-2xx answer from the server, decoded from its problem body.
type APIError struct {
	Status int    `json:"status"`
	Code   string `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	msg := e.Title
	if e.Detail != "" {
		msg = e.Detail
	}
	if msg == "" {
		msg = "request failed"
	}
	return fmt.Sprintf("api %d: %s", e.Status, msg)
}

// Unwrap exposes the matching domain error so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "validation":
		return domain.ErrValidation
	case "duplicate_email":
		return domain.ErrDuplicateEmail
	case "invalid_credentials":
		return domain.ErrInvalidCredentials
	case "unauthorized":
		return domain.ErrUnauthorized
	case "forbidden":
		return domain.ErrForbidden
	case "not_found":
		return domain.ErrNotFound
	case "conflict":
		return domain.ErrConflict
	}
	switch e.Status {
	case 401:
		return domain.ErrUnauthorized
	case 403:
		return domain.ErrForbidden
	case 404:
		return domain.ErrNotFound
	case 409:
		return domain.ErrConflict
	}
	return nil
}
