// internal/application/guard/guard.go
package guard

import (
	"net/url"
	"strings"

	authdom "storefront/internal/domain/auth"
)

// Route names a navigable view.
type Route string

const (
	RouteHome              Route = "/"
	RouteLogin             Route = "/login"
	RouteRegister          Route = "/register"
	RouteForgotPassword    Route = "/forgot-password"
	RouteProducts          Route = "/products"
	RouteProductDetail     Route = "/products/{id}"
	RouteCategories        Route = "/categories"
	RouteCart              Route = "/cart"
	RouteCheckout          Route = "/checkout"
	RouteOrderConfirmation Route = "/order-confirmation"
	RouteOrders            Route = "/orders"
	RouteProfile           Route = "/profile"
)

// LoginPath is where unauthenticated access to a gated route is sent.
const LoginPath = "/login"

// gated routes require an authenticated user.
var gated = map[Route]bool{
	RouteCheckout:          true,
	RouteOrderConfirmation: true,
	RouteOrders:            true,
	RouteProfile:           true,
}

// Routes lists every known route in navigation order.
var Routes = []Route{
	RouteHome, RouteLogin, RouteRegister, RouteForgotPassword,
	RouteProducts, RouteProductDetail, RouteCategories, RouteCart,
	RouteCheckout, RouteOrderConfirmation, RouteOrders, RouteProfile,
}

// Gated reports whether r requires authentication.
func Gated(r Route) bool {
	return gated[r]
}

// Decision is the outcome of Resolve.
type Decision struct {
	Allow    bool
	Redirect string
}

// Resolve decides whether a route may be shown for the given auth state.
// Unknown routes are allowed (the surface renders its own not-found).
func Resolve(r Route, st authdom.State) Decision {
	if Gated(r) && !st.Authenticated() {
		return Decision{Redirect: LoginPath}
	}
	return Decision{Allow: true}
}

// Match maps a request path to its route. "/products/42" -> RouteProductDetail.
func Match(path string) (Route, bool) {
	p := strings.TrimSpace(path)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		p = "/"
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}

	r := Route(p)
	for _, known := range Routes {
		if known == r {
			return r, true
		}
	}
	if rest, ok := strings.CutPrefix(p, "/products/"); ok && rest != "" && !strings.Contains(rest, "/") {
		return RouteProductDetail, true
	}
	return "", false
}

// LoginRedirect is LoginPath with the originally requested location as ?next=.
func LoginRedirect(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || next == LoginPath || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return LoginPath
	}
	return LoginPath + "?" + url.Values{"next": {next}}.Encode()
}

// SafeNext returns next if it is a local path, otherwise "/".
func SafeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
