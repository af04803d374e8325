package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAuthExpired is reported for HTTP 403, the backend's signal that the session token is no longer valid
	ErrAuthExpired = errors.New("authorization expired")
	// ErrInvalidCredentials is reported when the backend rejects a login attempt
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("resource not found")
	ErrValidation         = errors.New("validation failed")
	ErrServer             = errors.New("server error")
)

// StatusError is returned for every non-2xx response. It matches one of the
// sentinel errors above through errors.Is.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Status, http.StatusText(e.Status), e.Body)
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.Status == http.StatusForbidden:
		return ErrAuthExpired
	case e.Status == http.StatusUnauthorized:
		return ErrInvalidCredentials
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusBadRequest, e.Status == http.StatusConflict, e.Status == http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return ErrServer
	}
}

// IsAuthExpired reports whether err means the session must be dropped
func IsAuthExpired(err error) bool {
	return errors.Is(err, ErrAuthExpired)
}
