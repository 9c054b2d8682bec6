// internal/adapters/in/cli/root.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"storefront/internal/adapters/in/tui"
	"storefront/internal/application/guard"
	"storefront/internal/application/usecase"
	appcfg "storefront/internal/infra/config"
	"storefront/internal/infra/logging"
	shared "storefront/internal/platform/di/shared"
	storefrontdi "storefront/internal/platform/di/storefront"
)

// annotationRoute marks a command as showing a route; gated routes need a
// signed-in session before RunE is reached.
const annotationRoute = "storefront.route"

// LoginHint is shown when a gated command runs without a session.
const LoginHint = "Please log in first: run `storefront login`"

// errReported means the failure was already shown as a notification.
var errReported = errors.New("cli: reported")

// Builder creates the container for commands that need one.
type Builder func(ctx context.Context, cfg *appcfg.Config, log *zap.Logger) (*storefrontdi.Container, error)

// Option customizes the root command (tests inject a prepared container).
type Option func(*app)

func WithContainer(c *storefrontdi.Container) Option {
	return func(a *app) {
		a.build = func(context.Context, *appcfg.Config, *zap.Logger) (*storefrontdi.Container, error) {
			return c, nil
		}
		a.external = true
	}
}

func WithBuilder(b Builder) Option {
	return func(a *app) { a.build = b }
}

type app struct {
	v          *viper.Viper
	configFile string
	verbose    bool

	cfg *appcfg.Config
	log *zap.Logger

	build    Builder
	external bool
	infra    *shared.Infra
	cont     *storefrontdi.Container
}

// NewRootCmd builds the storefront command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	root, _ := newRoot(opts...)
	return root
}

func newRoot(opts ...Option) (*cobra.Command, *app) {
	a := &app{v: viper.New(), log: zap.NewNop(), build: buildContainer}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront client for a public product catalog",
		Long:          "Browse products, keep a persisted cart, sign in and place orders from the terminal or a local HTTP shell.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			return a.guard(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ./storefront.yaml or ~/.storefront/storefront.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log at the configured level instead of warn")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.String("log-format", "", "log format (console|json)")
	pf.String("state-backend", "", "state storage backend (file|sqlite|firestore|gcs|memory)")
	pf.String("state-path", "", "state file or sqlite path")
	pf.String("catalog-url", "", "catalog API base URL")
	for key, flag := range map[string]string{
		"LOG_LEVEL":        "log-level",
		"LOG_FORMAT":       "log-format",
		"STATE_BACKEND":    "state-backend",
		"STATE_PATH":       "state-path",
		"CATALOG_BASE_URL": "catalog-url",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		a.productsCmd(),
		a.categoriesCmd(),
		a.cartCmd(),
		a.checkoutCmd(),
		a.ordersCmd(),
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.forgotPasswordCmd(),
		a.profileCmd(),
		a.passwordCmd(),
		a.themeCmd(),
		a.serveCmd(),
		a.browseCmd(),
	)
	return root, a
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(stderr, tui.Notification(tui.StylesFor(true), usecase.Failure(usecase.CrashMessage)))
			code = 2
		}
	}()

	root, a := newRoot()
	defer func() {
		if err := a.close(); err != nil {
			fmt.Fprintln(stderr, "Error:", err)
		}
	}()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

// setup loads config and the logger. serve reconfigures logging itself.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := appcfg.LoadWith(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if !a.verbose && cmd.Name() != "serve" {
		level = "warn"
	}
	log, err := logging.NewTo(cmd.ErrOrStderr(), level, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

func (a *app) guard(cmd *cobra.Command) error {
	route, ok := cmd.Annotations[annotationRoute]
	if !ok || !guard.Gated(guard.Route(route)) {
		return nil
	}
	cont, err := a.container(cmd.Context())
	if err != nil {
		return err
	}
	if d := guard.Resolve(guard.Route(route), cont.State.Auth()); !d.Allow {
		fmt.Fprintln(cmd.ErrOrStderr(), tui.Notification(a.styles(), usecase.Failure(LoginHint)))
		return errReported
	}
	return nil
}

// container builds (once) the infra and container the commands share.
func (a *app) container(ctx context.Context) (*storefrontdi.Container, error) {
	if a.cont != nil {
		return a.cont, nil
	}
	if a.cfg == nil {
		return nil, errors.New("cli: config not loaded")
	}
	cont, err := a.build(ctx, a.cfg, a.log)
	if err != nil {
		return nil, err
	}
	a.cont = cont
	if cont != nil {
		a.infra = cont.Infra
	}
	return cont, nil
}

func buildContainer(ctx context.Context, cfg *appcfg.Config, log *zap.Logger) (*storefrontdi.Container, error) {
	infra, err := shared.NewInfra(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	cont, err := storefrontdi.NewContainer(ctx, infra, log)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	return cont, nil
}

func (a *app) close() error {
	if a.external || a.cont == nil {
		return nil
	}
	err := a.cont.Close()
	if a.infra != nil {
		err = errors.Join(err, a.infra.Close())
	}
	a.cont, a.infra = nil, nil
	_ = a.log.Sync()
	return err
}

// styles follows the persisted theme once the store is open.
func (a *app) styles() tui.Styles {
	if a.cont != nil && a.cont.State != nil {
		return tui.StylesFor(a.cont.State.DarkMode())
	}
	return tui.StylesFor(true)
}

// report prints the outcome of op. A failure becomes errReported so that
// Execute does not print it twice.
func (a *app) report(cmd *cobra.Command, op usecase.Op, err error) error {
	n := usecase.Notify(op, err)
	if err != nil {
		a.log.Debug("command failed", zap.String("op", string(op)), zap.Error(err))
		fmt.Fprintln(cmd.ErrOrStderr(), tui.Notification(a.styles(), n))
		return errReported
	}
	if line := tui.Notification(a.styles(), n); line != "" {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}

func (a *app) print(cmd *cobra.Command, s string) {
	fmt.Fprintln(cmd.OutOrStdout(), s)
}

// route annotates a command with the route it shows.
func route(cmd *cobra.Command, r guard.Route) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationRoute] = string(r)
	return cmd
}

// Main is the cmd/storefront entry point. SIGINT/SIGTERM cancel the
// command context (serve shuts down gracefully on it).
func Main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
