// internal/adapters/in/http/storefront/cart_handler.go
package storefronthttp

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"storefront/internal/application/usecase"
)

// GET /cart
func (h *handler) getCart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Cart.View())
}

type addItemRequest struct {
	ID string `json:"id"`
}

// POST /cart/items {"id": "..."}
func (h *handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		badRequest(w, "id is required")
		return
	}
	if _, err := h.deps.Cart.Add(r.Context(), req.ID); err != nil {
		writeErr(w, usecase.OpAddToCart, err)
		return
	}
	writeOutcome(w, http.StatusOK, usecase.OpAddToCart, h.deps.Cart.View())
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

// PUT /cart/items/{id} {"quantity": n}; n <= 0 removes the line.
func (h *handler) setCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := readJSON(r, &req); err != nil || req.Quantity == nil {
		badRequest(w, "quantity is required")
		return
	}
	if err := h.deps.Cart.SetQuantity(r.Context(), chi.URLParam(r, "id"), *req.Quantity); err != nil {
		writeErr(w, usecase.OpUpdateCart, err)
		return
	}
	writeOutcome(w, http.StatusOK, usecase.OpUpdateCart, h.deps.Cart.View())
}

// DELETE /cart/items/{id}
func (h *handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Cart.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, usecase.OpRemoveFromCart, err)
		return
	}
	writeOutcome(w, http.StatusOK, usecase.OpRemoveFromCart, h.deps.Cart.View())
}

// DELETE /cart
func (h *handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Cart.Clear(r.Context()); err != nil {
		writeErr(w, usecase.OpClearCart, err)
		return
	}
	writeOutcome(w, http.StatusOK, usecase.OpClearCart, h.deps.Cart.View())
}
