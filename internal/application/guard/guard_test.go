package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	authdom "storefront/internal/domain/auth"
)

func TestResolve(t *testing.T) {
	anon := authdom.State{}
	user := authdom.State{User: &authdom.Profile{UID: "u1"}}

	for _, r := range []Route{RouteCheckout, RouteOrderConfirmation, RouteOrders, RouteProfile} {
		assert.Equal(t, Decision{Redirect: LoginPath}, Resolve(r, anon), r)
		assert.Equal(t, Decision{Allow: true}, Resolve(r, user), r)
	}
	for _, r := range []Route{RouteHome, RouteProducts, RouteProductDetail, RouteCart, RouteCategories, RouteLogin} {
		assert.Equal(t, Decision{Allow: true}, Resolve(r, anon), r)
	}

	noUID := authdom.State{User: &authdom.Profile{Email: "a@b.c"}}
	assert.False(t, Resolve(RouteOrders, noUID).Allow)
}

func TestMatch(t *testing.T) {
	cases := map[string]Route{
		"/":                  RouteHome,
		"":                   RouteHome,
		"/orders/":           RouteOrders,
		"/products?page=2":   RouteProducts,
		"/products/42":       RouteProductDetail,
		"/checkout#shipping": RouteCheckout,
	}
	for path, want := range cases {
		got, ok := Match(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}

	_, ok := Match("/products/42/reviews")
	assert.False(t, ok)
	_, ok = Match("/nope")
	assert.False(t, ok)
}

func TestLoginRedirect(t *testing.T) {
	assert.Equal(t, "/login?next=%2Forders", LoginRedirect("/orders"))
	assert.Equal(t, "/login", LoginRedirect(""))
	assert.Equal(t, "/login", LoginRedirect("//evil.example"))
	assert.Equal(t, "/login", LoginRedirect("https://evil.example"))
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/orders", SafeNext("/orders"))
	assert.Equal(t, "/", SafeNext("//evil.example"))
	assert.Equal(t, "/", SafeNext(""))
}
