// internal/adapters/in/http/middleware/auth_guard.go
package middleware

import (
	"encoding/json"
	"net/http"

	"storefront/internal/application/guard"
	authdom "storefront/internal/domain/auth"
)

// AuthSource reports the current auth slice.
type AuthSource interface {
	Auth() authdom.State
}

// RequireAuth sends unauthenticated requests for route to
// /login?next=<requested path> with 303 See Other.
func RequireAuth(src AuthSource, route guard.Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var st authdom.State
			if src != nil {
				st = src.Auth()
			}
			d := guard.Resolve(route, st)
			if d.Allow {
				next.ServeHTTP(w, r)
				return
			}

			target := guard.LoginRedirect(r.URL.RequestURI())
			w.Header().Set("Location", target)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusSeeOther)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":    "Please log in to continue",
				"redirect": target,
			})
		})
	}
}
