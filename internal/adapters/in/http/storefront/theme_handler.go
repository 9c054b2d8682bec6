// internal/adapters/in/http/storefront/theme_handler.go
package storefronthttp

import (
	"net/http"

	"storefront/internal/application/usecase"
)

func (h *handler) themeBody() map[string]any {
	th := h.deps.State.Snapshot().Theme
	return map[string]any{"darkMode": th.DarkMode, "name": th.Name()}
}

// GET /theme
func (h *handler) getTheme(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.themeBody())
}

type themeRequest struct {
	DarkMode *bool `json:"darkMode"`
}

// POST /theme toggles; {"darkMode": bool} sets explicitly.
func (h *handler) setTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid json")
		return
	}

	var err error
	if req.DarkMode != nil {
		err = h.deps.State.SetDarkMode(r.Context(), *req.DarkMode)
	} else {
		err = h.deps.State.ToggleDarkMode(r.Context())
	}
	if err != nil {
		writeErr(w, usecase.OpTheme, err)
		return
	}
	writeJSON(w, http.StatusOK, h.themeBody())
}
