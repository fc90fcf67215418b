package restexec

import (
	"errors"
	"fmt"
)

// ErrAuthRequired indicates no session is present. Fail fast; nothing was
// sent to the backend.
var ErrAuthRequired = errors.New("authentication required")

// ErrAuthExpired indicates the backend rejected the credentials and the
// refresh failed. The caller must force a re-login.
var ErrAuthExpired = errors.New("authentication expired")

// NetworkError wraps a transport-level failure
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError carries a non-2xx backend response unchanged
type ServerError struct {
	Status int
	Body   []byte
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Body)
}
