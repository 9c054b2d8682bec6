// internal/adapters/in/cli/serve_cmd.go
package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/adapters/in/http/middleware"
	"storefront/internal/infra/logging"
	storefrontdi "storefront/internal/platform/di/storefront"
)

// atomicHandler allows swapping the underlying handler at runtime safely.
type atomicHandler struct {
	v atomic.Value // stores http.Handler
}

func newAtomicHandler(initial http.Handler) *atomicHandler {
	ah := &atomicHandler{}
	if initial == nil {
		initial = http.NotFoundHandler()
	}
	ah.v.Store(initial)
	return ah
}

func (h *atomicHandler) Store(next http.Handler) {
	if next == nil {
		return
	}
	h.v.Store(next)
}

func (h *atomicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cur := h.v.Load()
	if cur == nil {
		http.NotFound(w, r)
		return
	}
	cur.(http.Handler).ServeHTTP(w, r)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

const shutdownTimeout = 25 * time.Second

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local JSON HTTP shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logPath := "storefront.log"
			if _, ok := os.LookupEnv("K_SERVICE"); ok {
				logPath = "/tmp/storefront.log"
			}
			w, closeLog, teeErr := logging.TeeFile(logPath)
			defer func() { _ = closeLog() }()

			log, err := logging.NewTo(w, a.cfg.LogLevel, a.cfg.LogFormat)
			if err != nil {
				return err
			}
			a.log = log
			boot := log.Named("boot")
			if teeErr != nil {
				boot.Warn("log file unavailable; stdout only", zap.String("path", logPath), zap.Error(teeErr))
			} else {
				boot.Info("log output = stdout + file", zap.String("path", logPath))
			}

			ln, err := net.Listen("tcp", ":"+a.cfg.Port)
			if err != nil {
				return err
			}
			return a.serve(cmd.Context(), ln)
		},
	}
	cmd.Flags().String("port", "", "listen port (env PORT, default 8080)")
	_ = a.v.BindPFlag("PORT", cmd.Flags().Lookup("port"))
	return cmd
}

// serve answers /healthz right away, builds the container in the background
// and then swaps in the full router. It returns after ctx is cancelled and
// the server has shut down.
func (a *app) serve(ctx context.Context, ln net.Listener) error {
	boot := a.log.Named("boot")

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", healthz)
	switcher := newAtomicHandler(middleware.CORS()(healthMux))

	srv := &http.Server{
		Handler:      switcher,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var contHolder atomic.Pointer[storefrontdi.Container]
	serveErr := make(chan error, 1)
	go func() {
		boot.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	initDone := make(chan struct{})
	go func() {
		defer close(initDone)
		initCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()

		cont, err := a.build(initCtx, a.cfg, a.log)
		if err != nil {
			boot.Warn("di init failed; serving /healthz only", zap.Error(err))
			return
		}
		contHolder.Store(cont)

		if ctx.Err() != nil {
			return
		}
		if err := cont.WatchState(ctx); err != nil {
			boot.Warn("state watcher disabled", zap.Error(err))
		}

		fullMux := http.NewServeMux()
		fullMux.HandleFunc("/healthz", healthz)
		storefrontdi.Register(fullMux, cont)
		switcher.Store(fullMux)
		boot.Info("handler switched to storefront router")
	}()

	var runErr error
	select {
	case <-ctx.Done():
		boot.Info("shutting down")
	case err, ok := <-serveErr:
		if ok {
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		boot.Warn("server shutdown error", zap.Error(err))
	}
	<-initDone

	if cont := contHolder.Load(); cont != nil && !a.external {
		boot.Info("closing container resources")
		if err := cont.Close(); err != nil {
			boot.Warn("container close error", zap.Error(err))
		}
		if err := cont.Infra.Close(); err != nil {
			boot.Warn("infra close error", zap.Error(err))
		}
	}
	boot.Info("server stopped")
	return runErr
}
