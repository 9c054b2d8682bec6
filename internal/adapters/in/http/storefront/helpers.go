// internal/adapters/in/http/storefront/helpers.go
package storefronthttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/application/usecase"
	authdom "storefront/internal/domain/auth"
	orderdom "storefront/internal/domain/order"
	productdom "storefront/internal/domain/product"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeOutcome writes data (may be nil) plus the notification for op.
func writeOutcome(w http.ResponseWriter, code int, op usecase.Op, data any) {
	body := map[string]any{}
	if data != nil {
		body["data"] = data
	}
	if n := usecase.Notify(op, nil); n.Message != "" {
		body["notification"] = n
	}
	writeJSON(w, code, body)
}

// writeErr maps err to a status and the user-facing message for op.
func writeErr(w http.ResponseWriter, op usecase.Op, err error) {
	writeJSON(w, statusFor(err), map[string]any{
		"error":        usecase.Message(op, err),
		"notification": usecase.Notify(op, err),
	})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"error": strings.TrimSpace(msg)})
}

func statusFor(err error) int {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, orderdom.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrEmptyCart):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrLoginRequired),
		errors.Is(err, authdom.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, productdom.ErrNotFound),
		errors.Is(err, orderdom.ErrNotFound),
		errors.Is(err, authdom.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, authdom.ErrEmailInUse):
		return http.StatusConflict
	case errors.Is(err, authdom.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotConfigured),
		errors.Is(err, authdom.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// readJSON decodes a small JSON body. An empty body leaves dst untouched.
func readJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func parseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
