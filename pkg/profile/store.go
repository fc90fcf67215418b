package profile

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound indicates no profile document exists for the id
var ErrNotFound = errors.New("profile not found")

// NetworkError wraps a transport-level failure talking to the profile
// service. Callers that need the distinction test with errors.As.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("profile %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Store is the profile store boundary
type Store interface {
	// Fetch returns the profile for id, or ErrNotFound.
	Fetch(ctx context.Context, id string) (*UserProfile, error)

	// Create registers a new profile document seeded from principal fields.
	Create(ctx context.Context, id string, seed Seed) (*UserProfile, error)

	// Update merges a partial update into the stored document.
	Update(ctx context.Context, id string, update ProfileUpdate) error
}
