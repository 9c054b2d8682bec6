// internal/domain/auth/gateway_port.go
package auth

import (
	"context"
	"errors"
)

// Gateway error codes. Adapters map provider errors onto these so the
// application layer can choose user-facing messages.
var (
	ErrAccountNotFound    = errors.New("auth: account not found")
	ErrEmailInUse         = errors.New("auth: email already in use")
	ErrWeakPassword       = errors.New("auth: weak password")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUnavailable        = errors.New("auth: gateway not configured")
)

// Registration is the input to Gateway.Register.
type Registration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Username  string
}

// Credentials is the input to Gateway.SignIn.
type Credentials struct {
	Email    string
	Password string
}

// Account is what the identity provider knows about a user.
type Account struct {
	UID         string
	Email       string
	DisplayName string
}

// Gateway is the outbound port to the hosted identity provider.
type Gateway interface {
	Register(ctx context.Context, r Registration) (Account, error)
	SignIn(ctx context.Context, c Credentials) (Account, error)
	SignOut(ctx context.Context, uid string) error
	SendPasswordReset(ctx context.Context, email string) error
	// UpdateAccount updates displayName and, when non-empty, email.
	UpdateAccount(ctx context.Context, uid, displayName, email string) error
	UpdatePassword(ctx context.Context, uid, newPassword string) error
}

// ProfileRepository persists the users/{uid} record.
type ProfileRepository interface {
	// GetByUID returns ErrNotFound when the record is absent.
	GetByUID(ctx context.Context, uid string) (Profile, error)
	// Save overwrites the record (docId = uid).
	Save(ctx context.Context, p Profile) error
}
