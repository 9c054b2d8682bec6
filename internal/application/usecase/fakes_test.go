package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"storefront/internal/adapters/out/localstate"
	"storefront/internal/application/store"
	authdom "storefront/internal/domain/auth"
	orderdom "storefront/internal/domain/order"
	productdom "storefront/internal/domain/product"
)

func newState(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), localstate.NewMemoryStorage())
	require.NoError(t, err)
	return s
}

// ---- auth gateway ----

type fakeGateway struct {
	accounts map[string]fakeAccount // by email
	nextUID  int

	signedOut   []string
	resets      []string
	updates     []accountUpdate
	passwords   map[string]string // uid -> password
	signOutErr  error
	registerErr error
}

type fakeAccount struct {
	authdom.Account
	password string
}

type accountUpdate struct {
	uid, displayName, email string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{accounts: map[string]fakeAccount{}, passwords: map[string]string{}}
}

func (g *fakeGateway) Register(_ context.Context, r authdom.Registration) (authdom.Account, error) {
	if g.registerErr != nil {
		return authdom.Account{}, g.registerErr
	}
	if _, ok := g.accounts[r.Email]; ok {
		return authdom.Account{}, authdom.ErrEmailInUse
	}
	g.nextUID++
	acct := authdom.Account{UID: "uid-" + string(rune('0'+g.nextUID)), Email: r.Email, DisplayName: r.FirstName + " " + r.LastName}
	g.accounts[r.Email] = fakeAccount{Account: acct, password: r.Password}
	return acct, nil
}

func (g *fakeGateway) SignIn(_ context.Context, c authdom.Credentials) (authdom.Account, error) {
	a, ok := g.accounts[c.Email]
	if !ok || a.password != c.Password {
		return authdom.Account{}, authdom.ErrInvalidCredentials
	}
	return a.Account, nil
}

func (g *fakeGateway) SignOut(_ context.Context, uid string) error {
	if g.signOutErr != nil {
		return g.signOutErr
	}
	g.signedOut = append(g.signedOut, uid)
	return nil
}

func (g *fakeGateway) SendPasswordReset(_ context.Context, email string) error {
	if _, ok := g.accounts[email]; !ok {
		return authdom.ErrAccountNotFound
	}
	g.resets = append(g.resets, email)
	return nil
}

func (g *fakeGateway) UpdateAccount(_ context.Context, uid, displayName, email string) error {
	g.updates = append(g.updates, accountUpdate{uid, displayName, email})
	return nil
}

func (g *fakeGateway) UpdatePassword(_ context.Context, uid, pw string) error {
	g.passwords[uid] = pw
	return nil
}

// ---- profile repo ----

type fakeProfiles struct {
	mu      sync.Mutex
	data    map[string]authdom.Profile
	getErr  error
	saveErr error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{data: map[string]authdom.Profile{}}
}

func (f *fakeProfiles) GetByUID(_ context.Context, uid string) (authdom.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return authdom.Profile{}, f.getErr
	}
	p, ok := f.data[uid]
	if !ok {
		return authdom.Profile{}, authdom.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) Save(_ context.Context, p authdom.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.data[p.UID] = p
	return nil
}

// ---- order repo ----

type fakeOrders struct {
	created   []orderdom.Order
	list      []orderdom.Order
	createErr error
	onCreate  func(ctx context.Context)
}

func (f *fakeOrders) Create(ctx context.Context, o orderdom.Order) (string, error) {
	if f.onCreate != nil {
		f.onCreate(ctx)
	}
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, o)
	return "order-000000" + string(rune('0'+len(f.created))), nil
}

func (f *fakeOrders) ListByUser(_ context.Context, uid string) ([]orderdom.Order, error) {
	out := []orderdom.Order{}
	for _, o := range f.list {
		if o.UserID == uid {
			out = append(out, o)
		}
	}
	return out, nil
}

// ---- catalog ----

type fakeCatalog struct {
	mu        sync.Mutex
	products  map[string]productdom.Product
	cats      []productdom.Category
	failCat   map[string]bool
	inflight  int
	maxFlight int
	gate      chan struct{}
}

func (f *fakeCatalog) List(context.Context, productdom.Page) (productdom.PageResult, error) {
	return productdom.PageResult{}, nil
}

func (f *fakeCatalog) GetByID(_ context.Context, id string) (productdom.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	return p, nil
}

func (f *fakeCatalog) Categories(context.Context) ([]productdom.Category, error) {
	if f.cats == nil {
		return nil, errors.New("categories down")
	}
	return f.cats, nil
}

func (f *fakeCatalog) ListByCategory(_ context.Context, slug string, p productdom.Page) (productdom.PageResult, error) {
	f.mu.Lock()
	f.inflight++
	if f.inflight > f.maxFlight {
		f.maxFlight = f.inflight
	}
	f.mu.Unlock()

	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	f.inflight--
	f.mu.Unlock()

	if f.failCat[slug] {
		return productdom.PageResult{}, errors.New("category down")
	}
	ps := make([]productdom.Product, 0, 6)
	for i := 0; i < 6; i++ {
		ps = append(ps, productdom.Product{ID: slug + "-" + string(rune('a'+i))})
	}
	return productdom.PageResult{Products: ps, Total: 6}, nil
}

func (f *fakeCatalog) Search(context.Context, string, productdom.Page) (productdom.PageResult, error) {
	return productdom.PageResult{}, nil
}
