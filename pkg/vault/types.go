package vault

import (
	"context"
	"encoding/json"
)

// Credentials is the opaque username/password pair the legacy backend
// understands. It is independent of which path authenticated the user.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Logical entry keys shared by all backends.
const (
	KeyCredentials     = "credentials"
	KeyProfileSnapshot = "profile"
)

// Store is the credential vault boundary. Reads return (nil, nil) on a
// miss, matching the cache-miss convention elsewhere in the codebase.
// Implementations must survive process restarts except where documented.
type Store interface {
	SetCredentials(ctx context.Context, creds Credentials) error
	Credentials(ctx context.Context) (*Credentials, error)
	DeleteCredentials(ctx context.Context) error

	SetProfileSnapshot(ctx context.Context, snapshot json.RawMessage) error
	ProfileSnapshot(ctx context.Context) (json.RawMessage, error)
	DeleteProfileSnapshot(ctx context.Context) error

	// Clear removes every entry. Used by logout; must succeed locally
	// even when remote sign-out fails.
	Clear(ctx context.Context) error

	Close() error
}
