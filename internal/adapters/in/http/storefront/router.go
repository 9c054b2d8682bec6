// internal/adapters/in/http/storefront/router.go
package storefronthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront/internal/adapters/in/http/middleware"
	"storefront/internal/application/guard"
	"storefront/internal/application/store"
	"storefront/internal/application/usecase"
	productdom "storefront/internal/domain/product"
)

// Deps are the usecases behind the HTTP shell. Every field is required
// except Log and AllowedOrigins.
type Deps struct {
	Catalog  productdom.Catalog
	Products *usecase.CatalogUsecase
	Cart     *usecase.CartUsecase
	Checkout *usecase.CheckoutUsecase
	Orders   *usecase.OrderUsecase
	Auth     *usecase.AuthUsecase
	State    *store.Store

	AllowedOrigins []string
	Log            *zap.Logger
}

// NewRouter builds the storefront routes. Gated views redirect to
// /login?next=... when nobody is signed in.
func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	h := &handler{deps: d, log: log.Named("storefront_http")}
	gate := func(route guard.Route) func(http.Handler) http.Handler {
		return middleware.RequireAuth(d.State, route)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.CORS(d.AllowedOrigins...))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", h.home)

	// catalog
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Get("/categories", h.categories)

	// cart
	r.Get("/cart", h.getCart)
	r.Delete("/cart", h.clearCart)
	r.Post("/cart/items", h.addCartItem)
	r.Put("/cart/items/{id}", h.setCartQuantity)
	r.Delete("/cart/items/{id}", h.removeCartItem)

	// auth
	r.Post("/login", h.login)
	r.Post("/register", h.register)
	r.Post("/logout", h.logout)
	r.Post("/forgot-password", h.forgotPassword)

	// theme
	r.Get("/theme", h.getTheme)
	r.Post("/theme", h.setTheme)

	// gated
	r.With(gate(guard.RouteCheckout)).Get("/checkout", h.getCheckout)
	r.With(gate(guard.RouteCheckout)).Post("/checkout", h.placeOrder)
	r.With(gate(guard.RouteOrderConfirmation)).Get("/order-confirmation", h.orderConfirmation)
	r.With(gate(guard.RouteOrders)).Get("/orders", h.listOrders)
	r.Route("/profile", func(r chi.Router) {
		r.Use(gate(guard.RouteProfile))
		r.Get("/", h.getProfile)
		r.Patch("/", h.updateProfile)
		r.Post("/password", h.updatePassword)
	})

	return r
}

type handler struct {
	deps Deps
	log  *zap.Logger
}

// home is the navbar read model.
func (h *handler) home(w http.ResponseWriter, _ *http.Request) {
	st := h.deps.State
	user, signedIn := st.User()
	body := map[string]any{
		"cartCount": st.CartCount(),
		"darkMode":  st.DarkMode(),
		"signedIn":  signedIn,
	}
	if signedIn {
		body["user"] = map[string]string{"uid": user.UID, "displayName": user.DisplayName(), "email": user.Email}
	}
	writeJSON(w, http.StatusOK, body)
}
