// internal/adapters/in/http/middleware/recover.go
package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// Fallback is the static notice shown instead of a crashed view.
var Fallback = struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}{
	Title:   "Something went wrong",
	Message: "Please try refreshing the page",
}

// Recover replaces a panicking handler's response with Fallback.
func Recover(log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("recover")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("handler panic",
					zap.Any("panic", rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]any{"error": Fallback})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
