package identity

import "context"

// Principal is the identity provider's representation of a signed-in entity.
// ID is the only guaranteed field; the rest are profile hints.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Clone returns a copy so observers cannot mutate shared state.
func (p *Principal) Clone() *Principal {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// Callback receives the current principal, or nil after sign-out.
type Callback func(*Principal)

// Provider is the identity provider boundary. Subscribe registers an
// observer and returns its unsubscribe function; the observer is invoked
// once immediately with the current principal and again on every change.
type Provider interface {
	Subscribe(fn Callback) (unsubscribe func())
	SignOut(ctx context.Context) error
}

// AttributeMap defines how provider claims map to Principal fields
type AttributeMap struct {
	UserID string `json:"user_id" yaml:"user_id"`
	Name   string `json:"name,omitempty" yaml:"name"`
	Email  string `json:"email,omitempty" yaml:"email"`
	Phone  string `json:"phone,omitempty" yaml:"phone"`
}

// DefaultAttributeMap covers standard OIDC claims.
func DefaultAttributeMap() AttributeMap {
	return AttributeMap{
		UserID: "sub",
		Name:   "name",
		Email:  "email",
		Phone:  "phone_number",
	}
}
