// internal/platform/di/storefront/container.go
package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	dbadapter "storefront/internal/adapters/out/db"
	fbadapter "storefront/internal/adapters/out/firebase"
	fs "storefront/internal/adapters/out/firestore"
	gcsadapter "storefront/internal/adapters/out/gcs"
	httpout "storefront/internal/adapters/out/http"
	"storefront/internal/adapters/out/localstate"
	"storefront/internal/adapters/out/mail"
	"storefront/internal/application/store"
	"storefront/internal/application/usecase"
	authdom "storefront/internal/domain/auth"
	orderdom "storefront/internal/domain/order"
	productdom "storefront/internal/domain/product"
	appcfg "storefront/internal/infra/config"
	"storefront/internal/infra/database"
	shared "storefront/internal/platform/di/shared"
)

// Container wires adapters, the persisted store and usecases.
// Remote features whose backend is not configured answer
// usecase.ErrNotConfigured instead of failing the boot.
type Container struct {
	Infra  *shared.Infra
	Config *appcfg.Config
	Log    *zap.Logger

	State   *store.Store
	Catalog productdom.Catalog

	Products *usecase.CatalogUsecase
	Cart     *usecase.CartUsecase
	Checkout *usecase.CheckoutUsecase
	Orders   *usecase.OrderUsecase
	Auth     *usecase.AuthUsecase

	fileStorage *localstate.FileStorage
	watcher     *localstate.Watcher
	closers     []func() error
}

// NewContainer builds the container on top of infra.
func NewContainer(ctx context.Context, infra *shared.Infra, log *zap.Logger) (*Container, error) {
	if infra == nil || infra.Config == nil {
		return nil, errors.New("di.storefront: infra is nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	cfg := infra.Config
	c := &Container{Infra: infra, Config: cfg, Log: log}

	httpClient := &http.Client{Timeout: 10 * time.Second}

	// 1) catalog
	c.Catalog = httpout.NewCatalogClient(cfg.CatalogBaseURL, httpClient)

	// 2) persisted store
	storage, err := c.buildStateStorage(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	st, err := store.Open(ctx, storage, store.WithLogger(log))
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("di.storefront: open store: %w", err)
	}
	c.State = st

	// 3) orders
	orders, err := c.buildOrderRepository(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	// 4) auth
	var profiles authdom.ProfileRepository
	if infra.Firestore != nil {
		profiles = fs.NewProfileRepositoryFS(infra.Firestore)
	}
	gateway := c.buildAuthGateway(ctx, httpClient)

	// 5) usecases
	c.Products = usecase.NewCatalogUsecase(c.Catalog, log)
	c.Cart = usecase.NewCartUsecase(c.Catalog, st)
	c.Checkout = usecase.NewCheckoutUsecase(orders, st, log)
	c.Orders = usecase.NewOrderUsecase(orders, st)
	c.Auth = usecase.NewAuthUsecase(gateway, profiles, st, log)

	log.Info("container ready",
		zap.String("state", cfg.StateBackend),
		zap.String("orders", cfg.OrderBackend),
		zap.Bool("ordersConfigured", orders != nil),
		zap.Bool("profilesConfigured", profiles != nil),
		zap.Bool("adminAuth", infra.FirebaseAuth != nil),
	)
	return c, nil
}

// WatchState reloads the store when another process rewrites the state
// file. Only the file backend can be watched; other backends are a no-op.
func (c *Container) WatchState(ctx context.Context) error {
	if c == nil || c.fileStorage == nil || c.watcher != nil {
		return nil
	}
	w := localstate.NewWatcher(c.fileStorage, store.RootKey, c.State.Reload, c.Log)
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("di.storefront: watch state: %w", err)
	}
	c.watcher = w
	return nil
}

// Close stops the watcher and releases owned resources (not Infra).
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.watcher != nil {
		c.watcher.Stop()
		c.watcher = nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *Container) buildStateStorage(ctx context.Context) (store.Storage, error) {
	cfg := c.Config
	switch cfg.StateBackend {
	case appcfg.StateMemory:
		return localstate.NewMemoryStorage(), nil

	case appcfg.StateSQLite:
		s, err := dbadapter.OpenStateStorageSQLite(ctx, cfg.StatePath)
		if err != nil {
			return nil, fmt.Errorf("di.storefront: sqlite state: %w", err)
		}
		c.closers = append(c.closers, s.Close)
		return s, nil

	case appcfg.StateFirestore:
		if c.Infra.Firestore == nil {
			return nil, errors.New("di.storefront: STATE_BACKEND=firestore but firestore is not initialized")
		}
		return fs.NewStateStorageFS(c.Infra.Firestore, cfg.StateCollection, cfg.StateProfile), nil

	case appcfg.StateGCS:
		if c.Infra.GCS == nil {
			return nil, errors.New("di.storefront: STATE_BACKEND=gcs but storage client is not initialized")
		}
		return gcsadapter.NewStateStorageGCS(c.Infra.GCS, cfg.StateBucket, cfg.StateProfile), nil

	default:
		s, err := localstate.NewFileStorage(cfg.StatePath)
		if err != nil {
			return nil, fmt.Errorf("di.storefront: file state: %w", err)
		}
		c.fileStorage = s
		return s, nil
	}
}

// buildOrderRepository returns nil (not an error) when the backend has no
// client; checkout and order history then report ErrNotConfigured.
func (c *Container) buildOrderRepository(ctx context.Context) (orderdom.Repository, error) {
	cfg := c.Config
	switch cfg.OrderBackend {
	case appcfg.OrderPostgres:
		db, err := database.NewConnection(ctx, cfg.DatabaseURL, c.Log)
		if err != nil {
			return nil, fmt.Errorf("di.storefront: %w", err)
		}
		c.closers = append(c.closers, db.Close)
		repo := dbadapter.NewOrderRepositoryPG(db.Client)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("di.storefront: %w", err)
		}
		return repo, nil

	default:
		if c.Infra.Firestore == nil {
			c.Log.Warn("orders disabled: firestore is not initialized")
			return nil, nil
		}
		return fs.NewOrderRepositoryFS(c.Infra.Firestore), nil
	}
}

func (c *Container) buildAuthGateway(ctx context.Context, httpClient *http.Client) authdom.Gateway {
	cfg := c.Config
	secrets := &secretProviderSM{sm: c.Infra.SecretManager, projectID: c.Infra.ProjectID}

	webKey, err := secrets.resolve(ctx, cfg.FirebaseWebAPIKey, SecretFirebaseWebAPIKey)
	if err != nil {
		c.Log.Warn("firebase web api key unavailable; password sign-in disabled", zap.Error(err))
	}
	identity := httpout.NewIdentityToolkitClient("", webKey, httpClient)

	var mailer fbadapter.ResetMailer
	sgKey, err := secrets.resolve(ctx, cfg.SendGridAPIKey, SecretSendGridAPIKey)
	switch {
	case err != nil:
		c.Log.Info("sendgrid key unavailable; reset mails go through Firebase", zap.Error(err))
	case sgKey != "":
		mailer = mail.NewPasswordResetMailer(mail.NewSendGridClient(sgKey, c.Log), cfg.SendGridFrom)
	}

	gw := fbadapter.NewAuthGateway(c.Infra.FirebaseAuth, identity, mailer, c.Log)
	if base := strings.TrimRight(cfg.BaseURL, "/"); base != "" {
		gw.ContinueURL = base + "/login"
	}
	return gw
}
