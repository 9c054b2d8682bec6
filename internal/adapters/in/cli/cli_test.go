package cli

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/adapters/out/localstate"
	"storefront/internal/application/store"
	"storefront/internal/application/usecase"
	authdom "storefront/internal/domain/auth"
	orderdom "storefront/internal/domain/order"
	productdom "storefront/internal/domain/product"
	appcfg "storefront/internal/infra/config"
	storefrontdi "storefront/internal/platform/di/storefront"
)

// ---- fakes ----

type catalog struct{}

var products = map[string]productdom.Product{
	"1": {ID: "1", Title: "Phone", Price: 100, DiscountPercentage: 10, Brand: "Acme", Stock: 4, Description: "Fast"},
	"2": {ID: "2", Title: "Lipstick", Price: 5.5},
}

func (catalog) page(kind, arg string, p productdom.Page) productdom.PageResult {
	return productdom.PageResult{
		Products: []productdom.Product{{ID: "9", Title: kind + ":" + arg, Price: 1}},
		Total:    30,
	}
}

func (c catalog) List(_ context.Context, p productdom.Page) (productdom.PageResult, error) {
	return c.page("list", "", p), nil
}

func (catalog) GetByID(_ context.Context, id string) (productdom.Product, error) {
	p, ok := products[id]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	return p, nil
}

func (catalog) Categories(context.Context) ([]productdom.Category, error) {
	return []productdom.Category{{Slug: "beauty", Name: "Beauty"}}, nil
}

func (c catalog) ListByCategory(_ context.Context, slug string, p productdom.Page) (productdom.PageResult, error) {
	return c.page("category", slug, p), nil
}

func (c catalog) Search(_ context.Context, q string, p productdom.Page) (productdom.PageResult, error) {
	return c.page("search", q, p), nil
}

type gateway struct{}

func (gateway) Register(_ context.Context, r authdom.Registration) (authdom.Account, error) {
	return authdom.Account{UID: "u1", Email: r.Email}, nil
}

func (gateway) SignIn(_ context.Context, c authdom.Credentials) (authdom.Account, error) {
	if c.Password != "secret1" {
		return authdom.Account{}, authdom.ErrInvalidCredentials
	}
	return authdom.Account{UID: "u1", Email: c.Email, DisplayName: "Ada Lovelace"}, nil
}

func (gateway) SignOut(context.Context, string) error                       { return nil }
func (gateway) SendPasswordReset(context.Context, string) error             { return nil }
func (gateway) UpdateAccount(context.Context, string, string, string) error { return nil }
func (gateway) UpdatePassword(context.Context, string, string) error        { return nil }

type orders struct {
	mu   sync.Mutex
	list []orderdom.Order
}

func (o *orders) Create(_ context.Context, ord orderdom.Order) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	ord.ID = "ord-abcdefgh12345678"
	o.list = append(o.list, ord)
	return ord.ID, nil
}

func (o *orders) ListByUser(_ context.Context, uid string) ([]orderdom.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := []orderdom.Order{}
	for _, ord := range o.list {
		if ord.UserID == uid {
			out = append(out, ord)
		}
	}
	return out, nil
}

// ---- harness ----

type harness struct {
	t     *testing.T
	cont  *storefrontdi.Container
	state *store.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("STATE_BACKEND", "memory")

	st, err := store.Open(context.Background(), localstate.NewMemoryStorage())
	require.NoError(t, err)

	cat := catalog{}
	repo := &orders{}
	cont := &storefrontdi.Container{
		Config:   &appcfg.Config{},
		Log:      zap.NewNop(),
		State:    st,
		Catalog:  cat,
		Products: usecase.NewCatalogUsecase(cat, nil),
		Cart:     usecase.NewCartUsecase(cat, st),
		Checkout: usecase.NewCheckoutUsecase(repo, st, nil),
		Orders:   usecase.NewOrderUsecase(repo, st),
		Auth:     usecase.NewAuthUsecase(gateway{}, nil, st, nil),
	}
	return &harness{t: t, cont: cont, state: st}
}

func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()
	root := NewRootCmd(WithContainer(h.cont))
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (h *harness) login() {
	h.t.Helper()
	_, _, err := h.run("login", "--email", "ada@example.com", "--password", "secret1")
	require.NoError(h.t, err)
}

// ---- tests ----

func TestProductsList(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("products", "list", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "list:")
	assert.Contains(t, out, "Page 2 of 3")

	out, _, err = h.run("products", "list", "--category", "beauty")
	require.NoError(t, err)
	assert.Contains(t, out, "category:beauty")

	out, _, err = h.run("products", "list", "-q", "phone")
	require.NoError(t, err)
	assert.Contains(t, out, "search:phone")
}

func TestProductsShow(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("products", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Phone")
	assert.Contains(t, out, "Brand: Acme")
	assert.Contains(t, out, "$110.00")

	_, errOut, err := h.run("products", "show", "404")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "Product not found")
}

func TestCategories(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("categories", "--names")
	require.NoError(t, err)
	assert.Contains(t, out, "Beauty")

	out, _, err = h.run("categories")
	require.NoError(t, err)
	assert.Contains(t, out, "category:beauty")
}

func TestCartFlow(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("cart", "add", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Added to cart!")
	_, _, err = h.run("cart", "add", "1")
	require.NoError(t, err)
	_, _, err = h.run("cart", "add", "2")
	require.NoError(t, err)
	assert.Equal(t, 3, h.state.CartCount())

	out, _, err = h.run("cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Cart (3)")
	assert.Contains(t, out, "$205.50")

	_, _, err = h.run("cart", "set", "1", "0")
	require.NoError(t, err)
	assert.Equal(t, 1, h.state.CartCount())

	out, _, err = h.run("cart", "remove", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Item removed from cart")

	out, _, err = h.run("cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty")

	_, _, err = h.run("cart", "set", "1", "many")
	assert.Error(t, err)
}

func TestGatedCommandsNeedLogin(t *testing.T) {
	h := newHarness(t)

	for _, args := range [][]string{
		{"orders"},
		{"checkout"},
		{"profile", "show"},
		{"password", "--new", "abcdef", "--confirm", "abcdef"},
	} {
		_, errOut, err := h.run(args...)
		assert.ErrorIs(t, err, errReported, args)
		assert.Contains(t, errOut, "storefront login", args)
	}
}

func TestLogin(t *testing.T) {
	h := newHarness(t)

	_, errOut, err := h.run("login", "--email", "ada@example.com", "--password", "nope")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "Invalid email or password")
	assert.False(t, h.state.Auth().Authenticated())

	_, errOut, err = h.run("login", "--email", "not-an-email", "--password", "x")
	assert.ErrorIs(t, err, errReported)
	assert.NotEmpty(t, errOut)

	out, _, err := h.run("login", "--email", "ada@example.com", "--password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "Login successful!")
	assert.True(t, h.state.Auth().Authenticated())

	out, _, err = h.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out successfully")
	assert.False(t, h.state.Auth().Authenticated())
}

func TestRegister_PasswordMismatch(t *testing.T) {
	h := newHarness(t)

	_, errOut, err := h.run("register",
		"--first-name", "Ada", "--last-name", "L", "--username", "ada",
		"--email", "ada@example.com", "--password", "secret1", "--confirm-password", "secret2")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "Passwords do not match")
	assert.False(t, h.state.Auth().Authenticated())
}

func TestCheckout_PrefillsFromProfile(t *testing.T) {
	h := newHarness(t)
	h.login()

	_, _, err := h.run("profile", "update",
		"--address", "1 Main St", "--city", "Springfield", "--postal-code", "12345", "--phone", "555")
	require.NoError(t, err)
	u, _ := h.state.User()
	assert.Equal(t, "Ada", u.FirstName)
	assert.Equal(t, "Springfield", u.City)

	_, errOut, err := h.run("checkout")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "Your cart is empty")

	_, _, err = h.run("cart", "add", "2")
	require.NoError(t, err)
	out, _, err := h.run("checkout", "--city", "Shelbyville")
	require.NoError(t, err)
	assert.Contains(t, out, "Order placed successfully!")
	assert.Contains(t, out, "Order #12345678")
	assert.Contains(t, out, "Shelbyville")
	assert.Equal(t, 0, h.state.CartCount())

	out, _, err = h.run("orders", "--status", "pending")
	require.NoError(t, err)
	assert.Contains(t, out, "Order #12345678")

	_, errOut, err = h.run("orders", "--status", "lost")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "Unknown order status")
}

func TestProfileShowAndPassword(t *testing.T) {
	h := newHarness(t)
	h.login()

	out, _, err := h.run("profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Lovelace")

	_, errOut, err := h.run("password", "--new", "abcdef", "--confirm", "abcdeg")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "New passwords do not match")

	out, _, err = h.run("password", "--new", "abcdef", "--confirm", "abcdef")
	require.NoError(t, err)
	assert.Contains(t, out, "Password updated successfully")
}

func TestTheme(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("theme", "show")
	require.NoError(t, err)
	assert.Equal(t, "dark", strings.TrimSpace(out))

	out, _, err = h.run("theme", "toggle")
	require.NoError(t, err)
	assert.Contains(t, out, "light")
	assert.False(t, h.state.DarkMode())

	_, _, err = h.run("theme", "set", "dark")
	require.NoError(t, err)
	assert.True(t, h.state.DarkMode())

	_, _, err = h.run("theme", "set", "blue")
	assert.Error(t, err)
}

func TestExecute_UnknownCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STATE_BACKEND", "memory")

	var out, errOut bytes.Buffer
	code := Execute(context.Background(), []string{"nope"}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "unknown command")
}

func TestServe_SwapsToStorefrontRouter(t *testing.T) {
	h := newHarness(t)
	a := &app{log: zap.NewNop(), cfg: &appcfg.Config{}, external: true}
	WithContainer(h.cont)(a)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.serve(ctx, ln) }()

	client := &http.Client{Timeout: time.Second, Transport: &http.Transport{DisableKeepAlives: true}}
	get := func(path string) (int, string) {
		resp, err := client.Get(base + path)
		if err != nil {
			return 0, ""
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(b)
	}

	require.Eventually(t, func() bool {
		code, _ := get("/products/1")
		return code == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	code, body := get("/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return")
	}
}
