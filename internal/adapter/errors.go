package adapter

import (
	"errors"
	"fmt"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("client unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrRateLimited  = errors.New("rate limited")
	ErrServer       = errors.New("knowledge base server error")

	ErrDatasetNotFound = errors.New("dataset not found")
	ErrEmptyResponse   = errors.New("empty response")
)

// APIError is returned for every non-2xx response of the knowledge base.
// Code and Message are filled from the JSON error envelope when present.
type APIError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	detail := e.Message
	if detail == "" {
		detail = e.Body
	}
	if e.Code != "" {
		detail = e.Code + ": " + detail
	}
	return fmt.Sprintf("%s: http %d: %s", e.Op, e.StatusCode, detail)
}

// Unwrap returns the sentinel matching StatusCode, or nil for statuses
// without one.
func (e *APIError) Unwrap() error {
	return sentinelForStatus(e.StatusCode)
}
