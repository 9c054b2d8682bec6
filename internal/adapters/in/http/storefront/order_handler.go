// internal/adapters/in/http/storefront/order_handler.go
package storefronthttp

import (
	"net/http"
	"net/url"
	"strings"

	"storefront/internal/application/usecase"
	orderdom "storefront/internal/domain/order"
)

type checkoutView struct {
	Cart     usecase.CartView     `json:"cart"`
	Shipping usecase.ShippingForm `json:"shipping"`
}

// GET /checkout: the cart plus shipping fields prefilled from the profile.
func (h *handler) getCheckout(w http.ResponseWriter, _ *http.Request) {
	user, _ := h.deps.State.User()
	writeJSON(w, http.StatusOK, checkoutView{
		Cart: h.deps.Cart.View(),
		Shipping: usecase.ShippingForm{
			ShippingAddress: user.Address,
			City:            user.City,
			PostalCode:      user.PostalCode,
			Phone:           user.Phone,
		},
	})
}

type orderView struct {
	orderdom.Order
	ShortID string `json:"shortId"`
}

// POST /checkout
func (h *handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var in usecase.ShippingForm
	if err := readJSON(r, &in); err != nil {
		badRequest(w, "invalid json")
		return
	}
	o, err := h.deps.Checkout.PlaceOrder(r.Context(), in)
	if err != nil {
		writeErr(w, usecase.OpCheckout, err)
		return
	}

	next := "/order-confirmation?" + url.Values{"id": {o.ID}}.Encode()
	w.Header().Set("Location", next)
	writeOutcome(w, http.StatusCreated, usecase.OpCheckout, map[string]any{
		"order": orderView{Order: o, ShortID: o.ShortID()},
		"next":  next,
	})
}

// GET /order-confirmation?id=
func (h *handler) orderConfirmation(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		badRequest(w, "id is required")
		return
	}
	orders, err := h.deps.Orders.List(r.Context(), "")
	if err != nil {
		writeErr(w, usecase.OpLoadOrders, err)
		return
	}
	for _, o := range orders {
		if o.ID == id {
			writeJSON(w, http.StatusOK, orderView{Order: o, ShortID: o.ShortID()})
			return
		}
	}
	writeErr(w, usecase.OpLoadOrders, orderdom.ErrNotFound)
}

// GET /orders?status=
func (h *handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.deps.Orders.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeErr(w, usecase.OpLoadOrders, err)
		return
	}
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderView{Order: o, ShortID: o.ShortID()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": out})
}
