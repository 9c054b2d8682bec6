// internal/platform/di/storefront/register.go
package storefront

import (
	"net/http"
	"strings"

	storefronthttp "storefront/internal/adapters/in/http/storefront"
)

// Register mounts the storefront routes onto mux.
func Register(mux *http.ServeMux, cont *Container) {
	if mux == nil || cont == nil {
		return
	}
	var origins []string
	if base := strings.TrimSpace(cont.Config.BaseURL); base != "" {
		origins = append(origins, base)
	}
	mux.Handle("/", storefronthttp.NewRouter(storefronthttp.Deps{
		Catalog:        cont.Catalog,
		Products:       cont.Products,
		Cart:           cont.Cart,
		Checkout:       cont.Checkout,
		Orders:         cont.Orders,
		Auth:           cont.Auth,
		State:          cont.State,
		AllowedOrigins: origins,
		Log:            cont.Log,
	}))
}
