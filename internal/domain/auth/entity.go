// internal/domain/auth/entity.go
package auth

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidProfile = errors.New("auth: invalid profile")
	ErrNotFound       = errors.New("auth: profile not found")
)

// Profile is the authenticated user's snapshot held by the auth slice.
//   - UID / Email come from Firebase Auth
//   - the rest is the users/{uid} record
type Profile struct {
	UID        string    `json:"uid"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName,omitempty"`
	LastName   string    `json:"lastName,omitempty"`
	Username   string    `json:"username,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	PostalCode string    `json:"postalCode,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt,omitempty"`
}

// DisplayName is "First Last" (Firebase displayName).
func (p Profile) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// ProfilePatch represents partial updates to Profile fields.
// A nil field means "no change".
type ProfilePatch struct {
	Email      *string `json:"email,omitempty"`
	FirstName  *string `json:"firstName,omitempty"`
	LastName   *string `json:"lastName,omitempty"`
	Username   *string `json:"username,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	PostalCode *string `json:"postalCode,omitempty"`

	UpdatedAt *time.Time `json:"-"`
}

// IsEmpty reports whether the patch changes nothing.
func (pp ProfilePatch) IsEmpty() bool {
	return pp.Email == nil && pp.FirstName == nil && pp.LastName == nil &&
		pp.Username == nil && pp.Phone == nil && pp.Address == nil &&
		pp.City == nil && pp.PostalCode == nil && pp.UpdatedAt == nil
}

// Apply merges the patch into p and returns the result. UID never changes.
func (pp ProfilePatch) Apply(p Profile) Profile {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&p.Email, pp.Email)
	set(&p.FirstName, pp.FirstName)
	set(&p.LastName, pp.LastName)
	set(&p.Username, pp.Username)
	set(&p.Phone, pp.Phone)
	set(&p.Address, pp.Address)
	set(&p.City, pp.City)
	set(&p.PostalCode, pp.PostalCode)
	if pp.UpdatedAt != nil {
		p.UpdatedAt = *pp.UpdatedAt
	}
	return p
}

// State is the auth slice: User == nil means unauthenticated.
type State struct {
	User *Profile `json:"user"`
}

// Authenticated reports whether a user is present.
func (s State) Authenticated() bool {
	return s.User != nil && strings.TrimSpace(s.User.UID) != ""
}

// SetUser replaces the stored user record wholesale.
func (s *State) SetUser(p Profile) error {
	if strings.TrimSpace(p.UID) == "" {
		return ErrInvalidProfile
	}
	cp := p
	cp.UID = strings.TrimSpace(p.UID)
	s.User = &cp
	return nil
}

// Patch merges fields into the current user. Unauthenticated state is an error.
func (s *State) Patch(pp ProfilePatch) error {
	if !s.Authenticated() {
		return ErrInvalidProfile
	}
	merged := pp.Apply(*s.User)
	s.User = &merged
	return nil
}

// Logout clears the user record.
func (s *State) Logout() {
	s.User = nil
}

// Clone returns a deep copy.
func (s State) Clone() State {
	if s.User == nil {
		return State{}
	}
	cp := *s.User
	return State{User: &cp}
}
