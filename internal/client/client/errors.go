package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable      = errors.New("server unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrAlreadyExists    = errors.New("already exists")
	ErrUnexpectedStatus = errors.New("unexpected response")
)

// APIError describes a failed call. Message and Fields come from the
// server's error body when it sent one.
type APIError struct {
	Op      string
	Status  int
	Message string
	Fields  map[string]string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Err, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// statusError maps an HTTP status to its sentinel.
func statusError(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return ErrValidation
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrAlreadyExists
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return ErrUnexpectedStatus
	}
}
