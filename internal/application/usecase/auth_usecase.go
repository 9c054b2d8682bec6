// internal/application/usecase/auth_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront/internal/application/store"
	authdom "storefront/internal/domain/auth"
)

// AuthUsecase orchestrates identity provider + users/{uid} record + auth slice.
type AuthUsecase struct {
	gateway  authdom.Gateway
	profiles authdom.ProfileRepository
	state    *store.Store
	log      *zap.Logger
	now      func() time.Time
}

// profiles may be nil (no profile database configured): the auth slice then
// only carries what the identity provider returns.
func NewAuthUsecase(gateway authdom.Gateway, profiles authdom.ProfileRepository, state *store.Store, log *zap.Logger) *AuthUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthUsecase{
		gateway:  gateway,
		profiles: profiles,
		state:    state,
		log:      log.Named("auth_uc"),
		now:      time.Now,
	}
}

func (u *AuthUsecase) ready() error {
	if u == nil || u.gateway == nil || u.state == nil {
		return ErrNotConfigured
	}
	return nil
}

// Register creates the account, writes users/{uid} and signs the user in.
func (u *AuthUsecase) Register(ctx context.Context, in RegisterForm) (authdom.Profile, error) {
	if err := u.ready(); err != nil {
		return authdom.Profile{}, err
	}
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateForm(in); err != nil {
		return authdom.Profile{}, err
	}

	acct, err := u.gateway.Register(ctx, authdom.Registration{
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  in.Username,
	})
	if err != nil {
		return authdom.Profile{}, err
	}

	p := authdom.Profile{
		UID:       acct.UID,
		Email:     firstNonEmpty(acct.Email, in.Email),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  in.Username,
		CreatedAt: u.now().UTC(),
	}

	if u.profiles != nil {
		if err := u.profiles.Save(ctx, p); err != nil {
			return authdom.Profile{}, fmt.Errorf("auth_uc: save profile uid=%s: %w", p.UID, err)
		}
	}

	if err := u.state.SetUser(ctx, p); err != nil {
		return p, err
	}
	u.log.Info("registered", zap.String("uid", p.UID))
	return p, nil
}

// Login signs in and merges the stored users/{uid} record into the session.
func (u *AuthUsecase) Login(ctx context.Context, in LoginForm) (authdom.Profile, error) {
	if err := u.ready(); err != nil {
		return authdom.Profile{}, err
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := validateForm(in); err != nil {
		return authdom.Profile{}, err
	}

	acct, err := u.gateway.SignIn(ctx, authdom.Credentials{Email: in.Email, Password: in.Password})
	if err != nil {
		return authdom.Profile{}, err
	}

	p := authdom.Profile{}
	if u.profiles != nil {
		rec, err := u.profiles.GetByUID(ctx, acct.UID)
		switch {
		case err == nil:
			p = rec
		case errors.Is(err, authdom.ErrNotFound):
			// account without a profile record (created elsewhere)
		default:
			return authdom.Profile{}, fmt.Errorf("auth_uc: load profile uid=%s: %w", acct.UID, err)
		}
	}

	// stored record fields win over the provider's, uid always from the provider
	p.UID = acct.UID
	p.Email = firstNonEmpty(p.Email, acct.Email)
	if p.FirstName == "" && p.LastName == "" && acct.DisplayName != "" {
		p.FirstName, p.LastName = splitDisplayName(acct.DisplayName)
	}

	if err := u.state.SetUser(ctx, p); err != nil {
		return p, err
	}
	u.log.Info("logged in", zap.String("uid", p.UID))
	return p, nil
}

// Logout signs out remotely first; the session is only cleared on success.
func (u *AuthUsecase) Logout(ctx context.Context) error {
	if err := u.ready(); err != nil {
		return err
	}
	if user, ok := u.state.User(); ok {
		if err := u.gateway.SignOut(ctx, user.UID); err != nil {
			return err
		}
	}
	return u.state.Logout(ctx)
}

func (u *AuthUsecase) ForgotPassword(ctx context.Context, in ForgotPasswordForm) error {
	if err := u.ready(); err != nil {
		return err
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := validateForm(in); err != nil {
		return err
	}
	return u.gateway.SendPasswordReset(ctx, in.Email)
}

// LoadProfile fetches users/{uid} and merges it into the session.
func (u *AuthUsecase) LoadProfile(ctx context.Context) (authdom.Profile, error) {
	if err := u.ready(); err != nil {
		return authdom.Profile{}, err
	}
	user, ok := u.state.User()
	if !ok {
		return authdom.Profile{}, ErrLoginRequired
	}
	if u.profiles == nil {
		return user, nil
	}

	rec, err := u.profiles.GetByUID(ctx, user.UID)
	if errors.Is(err, authdom.ErrNotFound) {
		return user, nil
	}
	if err != nil {
		return authdom.Profile{}, err
	}

	merged := mergeProfile(user, rec)
	if err := u.state.SetUser(ctx, merged); err != nil {
		return merged, err
	}
	return merged, nil
}

// UpdateProfile merges patch into the session profile (nil fields keep
// their value), then updates the provider account (display name, email when
// changed), the users/{uid} record and the session. Username is not editable.
func (u *AuthUsecase) UpdateProfile(ctx context.Context, patch authdom.ProfilePatch) (authdom.Profile, error) {
	if err := u.ready(); err != nil {
		return authdom.Profile{}, err
	}
	user, ok := u.state.User()
	if !ok {
		return authdom.Profile{}, ErrLoginRequired
	}

	now := u.now().UTC()
	patch.Username = nil
	patch.UpdatedAt = &now
	next := patch.Apply(user)
	if err := validateForm(profileFormOf(next)); err != nil {
		return authdom.Profile{}, err
	}

	newEmail := ""
	if !strings.EqualFold(next.Email, user.Email) {
		newEmail = next.Email
	}
	if err := u.gateway.UpdateAccount(ctx, user.UID, next.DisplayName(), newEmail); err != nil {
		return authdom.Profile{}, err
	}

	if u.profiles != nil {
		if err := u.profiles.Save(ctx, next); err != nil {
			return authdom.Profile{}, fmt.Errorf("auth_uc: save profile uid=%s: %w", next.UID, err)
		}
	}

	if err := u.state.PatchUser(ctx, patch); err != nil {
		return next, err
	}
	cur, _ := u.state.User()
	u.log.Info("profile updated", zap.String("uid", cur.UID), zap.Bool("emailChanged", newEmail != ""))
	return cur, nil
}

func (u *AuthUsecase) UpdatePassword(ctx context.Context, in PasswordForm) error {
	if err := u.ready(); err != nil {
		return err
	}
	user, ok := u.state.User()
	if !ok {
		return ErrLoginRequired
	}
	if err := validateForm(in); err != nil {
		return err
	}
	return u.gateway.UpdatePassword(ctx, user.UID, in.NewPassword)
}

// ----------------------------
// helpers
// ----------------------------

// mergeProfile overlays non-empty record fields onto base (uid is kept).
func mergeProfile(base, rec authdom.Profile) authdom.Profile {
	out := base
	set := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	set(&out.Email, rec.Email)
	set(&out.FirstName, rec.FirstName)
	set(&out.LastName, rec.LastName)
	set(&out.Username, rec.Username)
	set(&out.Phone, rec.Phone)
	set(&out.Address, rec.Address)
	set(&out.City, rec.City)
	set(&out.PostalCode, rec.PostalCode)
	if !rec.CreatedAt.IsZero() {
		out.CreatedAt = rec.CreatedAt
	}
	if !rec.UpdatedAt.IsZero() {
		out.UpdatedAt = rec.UpdatedAt
	}
	return out
}

func splitDisplayName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
