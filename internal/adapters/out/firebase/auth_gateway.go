// internal/adapters/out/firebase/auth_gateway.go
package firebase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	firebaseauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	httpout "storefront/internal/adapters/out/http"
	authdom "storefront/internal/domain/auth"
)

// MinPasswordLength matches Firebase Auth's own rule.
const MinPasswordLength = 6

// PasswordSignIn is the Identity Toolkit REST surface (web API key).
type PasswordSignIn interface {
	SignInWithPassword(ctx context.Context, email, password string) (httpout.SignInResult, error)
	SendPasswordResetEmail(ctx context.Context, email string) error
}

// ResetMailer delivers an Admin-generated reset link.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, toEmail, link string) error
}

// AuthGateway implements auth.Gateway.
//
//   - account management: Firebase Admin SDK (Auth may be nil -> ErrUnavailable)
//   - password sign-in: Identity Toolkit REST
//   - password reset: Admin link + Mailer when both are set, otherwise
//     Identity Toolkit sendOobCode (Firebase sends the mail)
type AuthGateway struct {
	Auth     *firebaseauth.Client
	Identity PasswordSignIn
	Mailer   ResetMailer
	// ContinueURL is where the reset page sends the user back (optional).
	ContinueURL string
	log         *zap.Logger
}

func NewAuthGateway(authClient *firebaseauth.Client, identity PasswordSignIn, mailer ResetMailer, log *zap.Logger) *AuthGateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthGateway{
		Auth:     authClient,
		Identity: identity,
		Mailer:   mailer,
		log:      log.Named("auth_gateway"),
	}
}

func (g *AuthGateway) admin() (*firebaseauth.Client, error) {
	if g == nil || g.Auth == nil {
		return nil, fmt.Errorf("firebase admin auth is not configured: %w", authdom.ErrUnavailable)
	}
	return g.Auth, nil
}

func (g *AuthGateway) Register(ctx context.Context, r authdom.Registration) (authdom.Account, error) {
	cli, err := g.admin()
	if err != nil {
		return authdom.Account{}, err
	}
	if len(r.Password) < MinPasswordLength {
		return authdom.Account{}, authdom.ErrWeakPassword
	}

	displayName := strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
	params := (&firebaseauth.UserToCreate{}).
		Email(strings.TrimSpace(r.Email)).
		Password(r.Password)
	if displayName != "" {
		params = params.DisplayName(displayName)
	}

	rec, err := cli.CreateUser(ctx, params)
	if err != nil {
		return authdom.Account{}, mapAdminError("create user", err)
	}

	g.log.Info("user created", zap.String("uid", rec.UID))
	return authdom.Account{UID: rec.UID, Email: rec.Email, DisplayName: rec.DisplayName}, nil
}

func (g *AuthGateway) SignIn(ctx context.Context, c authdom.Credentials) (authdom.Account, error) {
	if g == nil || g.Identity == nil {
		return authdom.Account{}, fmt.Errorf("password sign-in is not configured: %w", authdom.ErrUnavailable)
	}
	res, err := g.Identity.SignInWithPassword(ctx, c.Email, c.Password)
	if err != nil {
		return authdom.Account{}, err
	}
	return authdom.Account{UID: res.LocalID, Email: res.Email, DisplayName: res.DisplayName}, nil
}

// SignOut revokes refresh tokens when Admin is available; local sign-out
// never fails because of it.
func (g *AuthGateway) SignOut(ctx context.Context, uid string) error {
	uid = strings.TrimSpace(uid)
	if g == nil || g.Auth == nil || uid == "" {
		return nil
	}
	if err := g.Auth.RevokeRefreshTokens(ctx, uid); err != nil {
		g.log.Warn("revoke refresh tokens failed", zap.String("uid", uid), zap.Error(err))
	}
	return nil
}

func (g *AuthGateway) SendPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)

	if g != nil && g.Auth != nil && g.Mailer != nil {
		var (
			link string
			err  error
		)
		if g.ContinueURL != "" {
			link, err = g.Auth.PasswordResetLinkWithSettings(ctx, email, &firebaseauth.ActionCodeSettings{URL: g.ContinueURL})
		} else {
			link, err = g.Auth.PasswordResetLink(ctx, email)
		}
		if err != nil {
			return mapAdminError("password reset link", err)
		}
		return g.Mailer.SendPasswordReset(ctx, email, link)
	}

	if g == nil || g.Identity == nil {
		return fmt.Errorf("password reset is not configured: %w", authdom.ErrUnavailable)
	}
	return g.Identity.SendPasswordResetEmail(ctx, email)
}

func (g *AuthGateway) UpdateAccount(ctx context.Context, uid, displayName, email string) error {
	cli, err := g.admin()
	if err != nil {
		return err
	}
	params := (&firebaseauth.UserToUpdate{}).DisplayName(strings.TrimSpace(displayName))
	if e := strings.TrimSpace(email); e != "" {
		params = params.Email(e)
	}
	if _, err := cli.UpdateUser(ctx, strings.TrimSpace(uid), params); err != nil {
		return mapAdminError("update user", err)
	}
	return nil
}

func (g *AuthGateway) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	cli, err := g.admin()
	if err != nil {
		return err
	}
	if len(newPassword) < MinPasswordLength {
		return authdom.ErrWeakPassword
	}
	if _, err := cli.UpdateUser(ctx, strings.TrimSpace(uid), (&firebaseauth.UserToUpdate{}).Password(newPassword)); err != nil {
		return mapAdminError("update password", err)
	}
	return nil
}

func mapAdminError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case firebaseauth.IsEmailAlreadyExists(err):
		return fmt.Errorf("firebase: %s: %w", op, authdom.ErrEmailInUse)
	case firebaseauth.IsUserNotFound(err), firebaseauth.IsEmailNotFound(err):
		return fmt.Errorf("firebase: %s: %w", op, authdom.ErrAccountNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("firebase: %s: %w", op, err)
	}
}
