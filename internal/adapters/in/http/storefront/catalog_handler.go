// internal/adapters/in/http/storefront/catalog_handler.go
package storefronthttp

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"storefront/internal/application/listing"
	"storefront/internal/application/usecase"
	productdom "storefront/internal/domain/product"
)

type productView struct {
	productdom.Product
	HasDiscount   bool    `json:"hasDiscount"`
	OriginalPrice float64 `json:"originalPrice"`
}

func toProductView(p productdom.Product) productView {
	return productView{Product: p, HasDiscount: p.HasDiscount(), OriginalPrice: p.OriginalPrice()}
}

type listingResponse struct {
	View       listing.View         `json:"view"`
	Products   []productdom.Product `json:"products"`
	Total      int                  `json:"total"`
	TotalPages int                  `json:"totalPages"`
	Pages      []string             `json:"pages"`
	// URL is the shareable location of this view.
	URL string `json:"url"`
}

// GET /products?category=&page=&q=
func (h *handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := listing.FromValues(q)
	view.Query = q.Get("q")

	orch, err := listing.New(h.deps.Catalog, listing.WithLogger(h.log), listing.WithView(view))
	if err != nil {
		writeErr(w, usecase.OpFetchProducts, usecase.ErrNotConfigured)
		return
	}
	defer orch.Close()

	res := orch.Load(r.Context())
	st := orch.State()
	if res.Err != nil {
		writeErr(w, listingOp(st.View), res.Err)
		return
	}

	pages := listing.PageRange(st.View.Page, st.TotalPages, listing.DefaultDelta)
	labels := make([]string, 0, len(pages))
	for _, p := range pages {
		labels = append(labels, p.String())
	}

	url := "/products"
	if enc := st.View.Values().Encode(); enc != "" {
		url += "?" + enc
	}
	writeJSON(w, http.StatusOK, listingResponse{
		View:       st.View,
		Products:   st.Products,
		Total:      st.Total,
		TotalPages: st.TotalPages,
		Pages:      labels,
		URL:        url,
	})
}

func listingOp(v listing.View) usecase.Op {
	switch {
	case v.Query != "":
		return usecase.OpSearch
	case v.Category != "":
		return usecase.OpFetchCategory
	default:
		return usecase.OpFetchProducts
	}
}

// GET /products/{id}
func (h *handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		badRequest(w, "product id is required")
		return
	}
	p, err := h.deps.Products.Product(r.Context(), id)
	if err != nil {
		writeErr(w, usecase.OpFetchProduct, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductView(p))
}

// GET /categories
func (h *handler) categories(w http.ResponseWriter, r *http.Request) {
	out, err := h.deps.Products.Overview(r.Context())
	if err != nil {
		writeErr(w, usecase.OpFetchOverview, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}
