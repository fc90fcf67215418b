package session

import (
	"fmt"
	"strings"

	"github.com/crisisready/fieldlink/pkg/identity"
	"github.com/crisisready/fieldlink/pkg/profile"
	"github.com/crisisready/fieldlink/pkg/vault"
)

// DerivePolicy maps a principal and profile to backend credentials. It must
// be pure: no I/O, no stored state, same inputs same output.
type DerivePolicy func(p *identity.Principal, prof *profile.UserProfile) (vault.Credentials, error)

// SharedAccountPolicy maps every identity-provider user to one canonical
// backend account. This is a compatibility shim for a backend that
// recognizes only a single service identity; swap the policy out when the
// backend grows per-user accounts, without touching the state machine.
func SharedAccountPolicy(account vault.Credentials) DerivePolicy {
	return func(p *identity.Principal, prof *profile.UserProfile) (vault.Credentials, error) {
		if account.Username == "" || account.Password == "" {
			return vault.Credentials{}, fmt.Errorf("shared backend account is not configured")
		}
		return account, nil
	}
}

// RolePolicy infers the role for a direct login, where no profile document
// exists to consult.
type RolePolicy func(username string) profile.Role

// DefaultRolePolicy is a placeholder heuristic: usernames containing
// "admin" get the monitor role, everyone else victim. Replace it via
// Config.Roles once the backend exposes real role data.
func DefaultRolePolicy(username string) profile.Role {
	if strings.Contains(strings.ToLower(username), "admin") {
		return profile.RoleMonitor
	}
	return profile.RoleVictim
}
