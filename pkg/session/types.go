package session

import (
	"fmt"

	"github.com/crisisready/fieldlink/pkg/identity"
	"github.com/crisisready/fieldlink/pkg/profile"
)

// Phase is the session state discriminant
type Phase int

const (
	PhaseUnauthenticated Phase = iota
	PhaseResolving
	PhaseAuthenticated
)

func (p Phase) String() string {
	return []string{"unauthenticated", "resolving", "authenticated"}[p]
}

// Method records which path authenticated the user
type Method string

const (
	// MethodIdentityProvider marks sessions established by the OIDC
	// identity provider.
	MethodIdentityProvider Method = "identity_provider"
	// MethodDirectBackend marks sessions established by a direct
	// username/password login against the legacy backend.
	MethodDirectBackend Method = "direct_backend"
)

// State is an immutable snapshot of the session. Profile and Principal are
// deep copies; mutating them affects nothing.
type State struct {
	Phase     Phase
	Method    Method
	Profile   *profile.UserProfile
	Principal *identity.Principal

	// Err carries the cause of a forced sign-out. It is delivered once in
	// the transition snapshot and never persisted.
	Err error
}

// Authenticated reports whether a session is established
func (s State) Authenticated() bool {
	return s.Phase == PhaseAuthenticated
}

func (s State) clone() State {
	cp := s
	cp.Profile = s.Profile.Clone()
	cp.Principal = s.Principal.Clone()
	return cp
}

// Listener receives a state snapshot after every transition
type Listener func(State)

// ValidationError reports bad caller input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
