// internal/application/store/store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	authdom "storefront/internal/domain/auth"
	cartdom "storefront/internal/domain/cart"
	productdom "storefront/internal/domain/product"
	themedom "storefront/internal/domain/theme"
)

// RootKey is the durable storage key holding the whole snapshot.
const RootKey = "persist:root"

var (
	ErrNilStorage = errors.New("store: storage is nil")
)

// Storage is the durable key-value port (localStorage equivalent).
// Get returns ok=false when the key has never been written.
type Storage interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// Snapshot is a copy of all slices at one point in time.
type Snapshot struct {
	Cart  cartdom.Cart   `json:"cart"`
	Auth  authdom.State  `json:"auth"`
	Theme themedom.State `json:"theme"`
}

// Store is the process-wide state container.
//   - owns the cart / auth / theme slices
//   - every mutation is persisted before the call returns (ordered with the mutation)
//   - a *Store only exists after rehydration completed (see Open)
type Store struct {
	mu      sync.Mutex
	storage Storage
	key     string
	log     *zap.Logger

	cart  *cartdom.Cart
	auth  authdom.State
	theme themedom.State

	subs    map[int]func(Snapshot)
	nextSub int

	// gen counts committed mutations; Reload only applies what it read when
	// no mutation committed in between.
	gen uint64
}

// Option configures Open.
type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithKey overrides RootKey (e.g. one snapshot per profile).
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// Open builds the container and rehydrates it from storage before returning.
//
// A storage read error fails Open: continuing with defaults would make the
// next mutation overwrite the persisted snapshot.
// A missing or undecodable slice falls back to that slice's default.
func Open(ctx context.Context, storage Storage, opts ...Option) (*Store, error) {
	if storage == nil {
		return nil, ErrNilStorage
	}
	s := &Store{
		storage: storage,
		key:     RootKey,
		log:     zap.NewNop(),
		cart:    cartdom.New(),
		theme:   themedom.Default(),
		subs:    map[int]func(Snapshot){},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("store")

	if err := s.rehydrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the snapshot from storage, replacing in-memory state.
// Used when the backing storage was written by another process.
// If a local mutation commits while storage is being read, that mutation
// already persisted a newer snapshot and the read is discarded.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	cart, auth, theme, err := s.load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		s.log.Debug("reload superseded by local mutation", zap.String("key", s.key))
		return nil
	}
	s.cart, s.auth, s.theme = cart, auth, theme
	snap := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return nil
}

func (s *Store) rehydrate(ctx context.Context) error {
	cart, auth, theme, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cart, s.auth, s.theme = cart, auth, theme
	s.mu.Unlock()
	return nil
}

// load reads and decodes the snapshot without touching in-memory state.
func (s *Store) load(ctx context.Context) (*cartdom.Cart, authdom.State, themedom.State, error) {
	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return nil, authdom.State{}, themedom.State{}, fmt.Errorf("store: rehydrate %q: %w", s.key, err)
	}

	cart, auth, theme, warns := decodeSnapshot(raw, ok)
	for _, w := range warns {
		s.log.Warn("rehydrate fallback", zap.String("key", s.key), zap.String("detail", w))
	}

	s.log.Debug("rehydrated",
		zap.String("key", s.key),
		zap.Bool("found", ok),
		zap.Int("cartLines", len(cart.Items)),
		zap.Bool("authenticated", auth.Authenticated()),
		zap.Bool("darkMode", theme.DarkMode),
	)
	return cart, auth, theme, nil
}

// ----------------------------
// Reads (copies)
// ----------------------------

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) CartItems() []cartdom.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone().Items
}

func (s *Store) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Count()
}

func (s *Store) Auth() authdom.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.Clone()
}

// User returns the authenticated profile.
func (s *Store) User() (authdom.Profile, bool) {
	st := s.Auth()
	if !st.Authenticated() {
		return authdom.Profile{}, false
	}
	return *st.User, true
}

func (s *Store) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme.DarkMode
}

// ----------------------------
// Cart slice
// ----------------------------

func (s *Store) AddItem(ctx context.Context, p productdom.Product) error {
	return s.mutate(ctx, "cart/addItem", func() error {
		return s.cart.Add(cartdom.ItemFromProduct(p))
	})
}

func (s *Store) RemoveItem(ctx context.Context, id string) error {
	return s.mutate(ctx, "cart/removeItem", func() error {
		s.cart.Remove(id)
		return nil
	})
}

// UpdateQuantity sets quantity; quantity <= 0 removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	return s.mutate(ctx, "cart/updateQuantity", func() error {
		s.cart.SetQuantity(id, quantity)
		return nil
	})
}

// ConsumeCart subtracts ordered lines from the cart (checkout). Anything
// added after the order snapshot was taken stays in the cart.
func (s *Store) ConsumeCart(ctx context.Context, ordered []cartdom.CartItem) error {
	return s.mutate(ctx, "cart/consume", func() error {
		s.cart.Consume(ordered)
		return nil
	})
}

func (s *Store) ClearCart(ctx context.Context) error {
	return s.mutate(ctx, "cart/clearCart", func() error {
		s.cart.Clear()
		return nil
	})
}

// ----------------------------
// Auth slice
// ----------------------------

// SetUser replaces the stored profile wholesale.
func (s *Store) SetUser(ctx context.Context, p authdom.Profile) error {
	return s.mutate(ctx, "auth/setUser", func() error {
		return s.auth.SetUser(p)
	})
}

// PatchUser merges fields into the stored profile.
func (s *Store) PatchUser(ctx context.Context, patch authdom.ProfilePatch) error {
	return s.mutate(ctx, "auth/patchUser", func() error {
		return s.auth.Patch(patch)
	})
}

func (s *Store) Logout(ctx context.Context) error {
	return s.mutate(ctx, "auth/logout", func() error {
		s.auth.Logout()
		return nil
	})
}

// ----------------------------
// Theme slice
// ----------------------------

func (s *Store) ToggleDarkMode(ctx context.Context) error {
	return s.mutate(ctx, "theme/toggleDarkMode", func() error {
		s.theme.Toggle()
		return nil
	})
}

func (s *Store) SetDarkMode(ctx context.Context, v bool) error {
	return s.mutate(ctx, "theme/setDarkMode", func() error {
		s.theme.Set(v)
		return nil
	})
}

// ----------------------------
// Subscriptions
// ----------------------------

// Subscribe registers fn to be called after every committed mutation or
// reload. fn runs outside the store lock. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// ----------------------------
// internals
// ----------------------------

// mutate applies fn and persists the resulting snapshot under the lock.
// If fn fails nothing is persisted. If the write fails the in-memory change
// stands (last-write-wins) and the error is returned.
func (s *Store) mutate(ctx context.Context, action string, fn func() error) error {
	s.mu.Lock()
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.gen++
	snap := s.snapshotLocked()
	werr := s.persistLocked(ctx, snap)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	if werr != nil {
		s.log.Error("persist failed", zap.String("action", action), zap.Error(werr))
	} else {
		s.log.Debug("persisted", zap.String("action", action))
	}

	notify(subs, snap)
	return werr
}

func (s *Store) persistLocked(ctx context.Context, snap Snapshot) error {
	b, err := encodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("store: encode snapshot: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, b); err != nil {
		return fmt.Errorf("store: persist %q: %w", s.key, err)
	}
	return nil
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Cart:  *s.cart.Clone(),
		Auth:  s.auth.Clone(),
		Theme: s.theme,
	}
}

func (s *Store) subscribersLocked() []func(Snapshot) {
	if len(s.subs) == 0 {
		return nil
	}
	out := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
