package profile

import (
	"fmt"
	"time"
)

// Role classifies what a user does during a response
type Role string

const (
	RoleVictim    Role = "victim"
	RoleVolunteer Role = "volunteer"
	RoleMonitor   Role = "monitor"
)

// Valid reports whether the role is one of the known values
func (r Role) Valid() bool {
	switch r {
	case RoleVictim, RoleVolunteer, RoleMonitor:
		return true
	}
	return false
}

// UserProfile is the profile document keyed by principal id
type UserProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Role-specific optional fields
	Certifications []string `json:"certifications,omitempty"` // volunteers
	Rating         *float64 `json:"rating,omitempty"`         // volunteers
	Permissions    []string `json:"permissions,omitempty"`    // monitors
}

// Clone returns a deep copy
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Certifications != nil {
		cp.Certifications = append([]string(nil), p.Certifications...)
	}
	if p.Permissions != nil {
		cp.Permissions = append([]string(nil), p.Permissions...)
	}
	if p.Rating != nil {
		r := *p.Rating
		cp.Rating = &r
	}
	return &cp
}

// Seed carries the initial fields for a newly created profile
type Seed struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  Role   `json:"role"`
}

// Validate checks the seed before it is sent to the profile service
func (s *Seed) Validate() error {
	if s.Role != "" && !s.Role.Valid() {
		return fmt.Errorf("unknown role %q", s.Role)
	}
	return nil
}

// ProfileUpdate is a typed partial update. Nil fields are left untouched
// on the server; set fields replace the stored value.
type ProfileUpdate struct {
	Name           *string   `json:"name,omitempty"`
	Email          *string   `json:"email,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	Role           *Role     `json:"role,omitempty"`
	Active         *bool     `json:"active,omitempty"`
	Certifications *[]string `json:"certifications,omitempty"`
	Rating         *float64  `json:"rating,omitempty"`
	Permissions    *[]string `json:"permissions,omitempty"`
}

// IsEmpty reports whether the update changes nothing
func (u *ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil &&
		u.Role == nil && u.Active == nil && u.Certifications == nil &&
		u.Rating == nil && u.Permissions == nil
}

// Validate checks the update before it is sent to the profile service
func (u *ProfileUpdate) Validate() error {
	if u.Role != nil && !u.Role.Valid() {
		return fmt.Errorf("unknown role %q", *u.Role)
	}
	return nil
}

// Apply merges the update into a profile in place. Mirrors the server's
// merge semantics so the local cache stays consistent without a refetch.
func (u *ProfileUpdate) Apply(p *UserProfile) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Role != nil {
		p.Role = *u.Role
	}
	if u.Active != nil {
		p.Active = *u.Active
	}
	if u.Certifications != nil {
		p.Certifications = append([]string(nil), *u.Certifications...)
	}
	if u.Rating != nil {
		r := *u.Rating
		p.Rating = &r
	}
	if u.Permissions != nil {
		p.Permissions = append([]string(nil), *u.Permissions...)
	}
	p.UpdatedAt = time.Now().UTC()
}
