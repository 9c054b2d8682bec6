// internal/adapters/in/http/storefront/auth_handler.go
package storefronthttp

import (
	"net/http"

	"storefront/internal/application/guard"
	"storefront/internal/application/usecase"
	authdom "storefront/internal/domain/auth"
)

// POST /login[?next=/orders]
func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var in usecase.LoginForm
	if err := readJSON(r, &in); err != nil {
		badRequest(w, "invalid json")
		return
	}
	p, err := h.deps.Auth.Login(r.Context(), in)
	if err != nil {
		writeErr(w, usecase.OpLogin, err)
		return
	}
	writeOutcome(w, http.StatusOK, usecase.OpLogin, map[string]any{
		"user":     p,
		"redirect": guard.SafeNext(r.URL.Query().Get("next")),
	})
}

// POST /register
func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var in usecase.RegisterForm
	if err := readJSON(r, &in); err != nil {
		badRequest(w, "invalid json")
		return
	}
	p, err := h.deps.Auth.Register(r.Context(), in)
	if err != nil {
		writeErr(w, usecase.OpRegister, err)
		return
	}
	writeOutcome(w, http.StatusCreated, usecase.OpRegister, map[string]any{
		"user":     p,
		"redirect": string(guard.RouteHome),
	})
}

// POST /logout
func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Auth.Logout(r.Context()); err != nil {
		writeErr(w, usecase.OpLogout, err)
		return
	}
	writeOutcome(w, http.StatusOK, usecase.OpLogout, map[string]any{"redirect": guard.LoginPath})
}

// POST /forgot-password
func (h *handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var in usecase.ForgotPasswordForm
	if err := readJSON(r, &in); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if err := h.deps.Auth.ForgotPassword(r.Context(), in); err != nil {
		writeErr(w, usecase.OpForgotPassword, err)
		return
	}
	writeOutcome(w, http.StatusOK, usecase.OpForgotPassword, nil)
}

// GET /profile
func (h *handler) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.Auth.LoadProfile(r.Context())
	if err != nil {
		writeErr(w, usecase.OpLoadProfile, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PATCH /profile
// Omitted fields keep their value.
func (h *handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var in authdom.ProfilePatch
	if err := readJSON(r, &in); err != nil {
		badRequest(w, "invalid json")
		return
	}
	p, err := h.deps.Auth.UpdateProfile(r.Context(), in)
	if err != nil {
		writeErr(w, usecase.OpUpdateProfile, err)
		return
	}
	writeOutcome(w, http.StatusOK, usecase.OpUpdateProfile, p)
}

// POST /profile/password
func (h *handler) updatePassword(w http.ResponseWriter, r *http.Request) {
	var in usecase.PasswordForm
	if err := readJSON(r, &in); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if err := h.deps.Auth.UpdatePassword(r.Context(), in); err != nil {
		writeErr(w, usecase.OpUpdatePassword, err)
		return
	}
	writeOutcome(w, http.StatusOK, usecase.OpUpdatePassword, nil)
}
