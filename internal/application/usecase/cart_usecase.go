// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/application/store"
	cartdom "storefront/internal/domain/cart"
	productdom "storefront/internal/domain/product"
)

// CartView is the cart page read model.
type CartView struct {
	Items []CartLine      `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type CartLine struct {
	cartdom.CartItem
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartUsecase adds catalog products to the persisted cart slice.
type CartUsecase struct {
	catalog productdom.Catalog
	state   *store.Store
}

func NewCartUsecase(catalog productdom.Catalog, state *store.Store) *CartUsecase {
	return &CartUsecase{catalog: catalog, state: state}
}

// View reads one snapshot so items, count and total always agree.
func (u *CartUsecase) View() CartView {
	c := u.state.Snapshot().Cart
	lines := make([]CartLine, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, CartLine{CartItem: it, Subtotal: it.Subtotal()})
	}
	return CartView{Items: lines, Count: c.Count(), Total: c.Total()}
}

// Add looks the product up and adds one unit.
func (u *CartUsecase) Add(ctx context.Context, productID string) (productdom.Product, error) {
	if u == nil || u.catalog == nil || u.state == nil {
		return productdom.Product{}, ErrNotConfigured
	}
	p, err := u.catalog.GetByID(ctx, strings.TrimSpace(productID))
	if err != nil {
		return productdom.Product{}, err
	}
	return p, u.state.AddItem(ctx, p)
}

// AddProduct adds an already loaded product (listing / detail views).
func (u *CartUsecase) AddProduct(ctx context.Context, p productdom.Product) error {
	return u.state.AddItem(ctx, p)
}

func (u *CartUsecase) Remove(ctx context.Context, productID string) error {
	return u.state.RemoveItem(ctx, productID)
}

// SetQuantity removes the line when quantity <= 0.
func (u *CartUsecase) SetQuantity(ctx context.Context, productID string, quantity int) error {
	return u.state.UpdateQuantity(ctx, productID, quantity)
}

func (u *CartUsecase) Clear(ctx context.Context) error {
	return u.state.ClearCart(ctx)
}
