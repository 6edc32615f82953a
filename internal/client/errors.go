package client

import (
	"errors"
	"fmt"
)

// ValidationError is a client-side check that failed before any request
// was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthError means the caller is not logged in, or the API rejected the
// token (401) or the access (403). It is never retried.
type AuthError struct {
	Status  int
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("auth failed (%d): %s", e.Status, e.Message)
}

// APIError is any other non-2xx response carrying the structured body.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// TransportError wraps network, encoding and decoding failures.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsAuth(err error) bool {
	var a *AuthError
	return errors.As(err, &a)
}

// IsNotFound reports an APIError with status 404.
func IsNotFound(err error) bool {
	var a *APIError
	return errors.As(err, &a) && a.Status == 404
}

// Message returns the text to show a user for err.
func Message(err error) string {
	var (
		v  *ValidationError
		au *AuthError
		ap *APIError
		tr *TransportError
	)
	switch {
	case errors.As(err, &v):
		return v.Message
	case errors.As(err, &au):
		if au.Status == 0 {
			return au.Message
		}
		return "authentication failed: " + au.Message
	case errors.As(err, &ap):
		return ap.Message
	case errors.As(err, &tr):
		return "cannot reach server: " + tr.Err.Error()
	case err == nil:
		return ""
	}
	return err.Error()
}
