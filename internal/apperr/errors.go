// Package apperr defines the error taxonomy shared by the relay, its HTTP
// surface and the lookup UI.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrUpstream         = errors.New("upstream failure")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// UpstreamError describes a failed call to the external record service.
// StatusCode is zero when the request never produced a response.
type UpstreamError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("upstream status %d: %v", e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("upstream request: %v", e.Err)
	case e.Detail != "":
		return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Detail)
	default:
		return fmt.Sprintf("upstream status %d", e.StatusCode)
	}
}

// Unwrap exposes both ErrUpstream and the transport error, if any.
func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUpstream}
	}
	return []error{ErrUpstream, e.Err}
}
