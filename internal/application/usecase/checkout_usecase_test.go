package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdom "storefront/internal/domain/auth"
	orderdom "storefront/internal/domain/order"
	productdom "storefront/internal/domain/product"
)

func shipping() ShippingForm {
	return ShippingForm{ShippingAddress: " 1 Main St ", City: "Springfield", PostalCode: "12345", Phone: "555-0100"}
}

func newCheckout(t *testing.T) (*CheckoutUsecase, *CartUsecase, *fakeOrders) {
	t.Helper()
	st := newState(t)
	orders := &fakeOrders{}
	cat := &fakeCatalog{products: map[string]productdom.Product{
		"1": {ID: "1", Title: "Phone", Price: 10.5},
		"2": {ID: "2", Title: "Case", Price: 2},
	}}
	uc := NewCheckoutUsecase(orders, st, nil)
	uc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return uc, NewCartUsecase(cat, st), orders
}

func signIn(t *testing.T, uc *CheckoutUsecase) {
	t.Helper()
	require.NoError(t, uc.state.SetUser(context.Background(), authdom.Profile{UID: "u1", Email: "u1@example.com"}))
}

func TestPlaceOrder_RequiresLogin(t *testing.T) {
	uc, cart, orders := newCheckout(t)
	ctx := context.Background()
	_, err := cart.Add(ctx, "1")
	require.NoError(t, err)

	_, err = uc.PlaceOrder(ctx, shipping())
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Equal(t, "Please login to proceed with checkout", Message(OpCheckout, err))
	assert.Empty(t, orders.created)
	assert.Equal(t, 1, cart.View().Count)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	uc, _, orders := newCheckout(t)
	signIn(t, uc)

	_, err := uc.PlaceOrder(context.Background(), shipping())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, orders.created)
}

func TestPlaceOrder_MissingShippingField(t *testing.T) {
	uc, cart, orders := newCheckout(t)
	ctx := context.Background()
	signIn(t, uc)
	_, err := cart.Add(ctx, "1")
	require.NoError(t, err)

	in := shipping()
	in.City = "   "
	_, err = uc.PlaceOrder(ctx, in)
	assert.Equal(t, "City is required", Message(OpCheckout, err))
	assert.Empty(t, orders.created)
}

func TestPlaceOrder_Success(t *testing.T) {
	uc, cart, orders := newCheckout(t)
	ctx := context.Background()
	signIn(t, uc)
	for _, id := range []string{"1", "2", "1"} {
		_, err := cart.Add(ctx, id)
		require.NoError(t, err)
	}

	o, err := uc.PlaceOrder(ctx, shipping())
	require.NoError(t, err)
	assert.Equal(t, "order-0000001", o.ID)
	assert.Equal(t, "23", o.Total.String())
	assert.Equal(t, orderdom.StatusPending, o.Status)
	assert.Equal(t, "1 Main St", o.ShippingDetails.ShippingAddress)
	assert.Equal(t, uc.now(), o.CreatedAt)

	require.Len(t, orders.created, 1)
	assert.Equal(t, uc.now(), orders.created[0].CreatedAt)
	assert.Equal(t, "u1", orders.created[0].UserID)
	require.Len(t, orders.created[0].Items, 2)
	assert.Equal(t, 2, orders.created[0].Items[0].Quantity)

	assert.Equal(t, 0, cart.View().Count)
}

func TestPlaceOrder_KeepsLinesAddedDuringCreate(t *testing.T) {
	uc, cart, orders := newCheckout(t)
	ctx := context.Background()
	signIn(t, uc)
	_, err := cart.Add(ctx, "1")
	require.NoError(t, err)

	orders.onCreate = func(ctx context.Context) {
		require.NoError(t, cart.AddProduct(ctx, productdom.Product{ID: "late", Title: "Cable", Price: 1}))
		_, err := cart.Add(ctx, "1")
		require.NoError(t, err)
	}

	o, err := uc.PlaceOrder(ctx, shipping())
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 1, o.Items[0].Quantity)

	v := cart.View()
	require.Len(t, v.Items, 2)
	assert.Equal(t, "1", v.Items[0].ID)
	assert.Equal(t, 1, v.Items[0].Quantity)
	assert.Equal(t, "late", v.Items[1].ID)
}

func TestPlaceOrder_CreateFailureKeepsCart(t *testing.T) {
	uc, cart, orders := newCheckout(t)
	ctx := context.Background()
	signIn(t, uc)
	_, err := cart.Add(ctx, "2")
	require.NoError(t, err)

	orders.createErr = errors.New("permission denied")
	_, err = uc.PlaceOrder(ctx, shipping())
	require.Error(t, err)
	assert.Equal(t, "Failed to place order. Please try again.", Message(OpCheckout, err))
	assert.Equal(t, 1, cart.View().Count)
}

func TestCartUsecase(t *testing.T) {
	_, cart, _ := newCheckout(t)
	ctx := context.Background()

	_, err := cart.Add(ctx, "404")
	assert.ErrorIs(t, err, productdom.ErrNotFound)
	assert.Equal(t, "Product not found", Message(OpAddToCart, err))

	p, err := cart.Add(ctx, " 1 ")
	require.NoError(t, err)
	assert.Equal(t, "Phone", p.Title)
	require.NoError(t, cart.AddProduct(ctx, productdom.Product{ID: "9", Title: "Cable", Price: 1.25}))
	require.NoError(t, cart.SetQuantity(ctx, "1", 3))

	v := cart.View()
	require.Len(t, v.Items, 2)
	assert.Equal(t, "31.5", v.Items[0].Subtotal.String())
	assert.Equal(t, 4, v.Count)
	assert.Equal(t, "32.75", v.Total.String())

	require.NoError(t, cart.SetQuantity(ctx, "9", 0))
	assert.Len(t, cart.View().Items, 1)

	require.NoError(t, cart.Remove(ctx, "1"))
	assert.Empty(t, cart.View().Items)

	_, err = cart.Add(ctx, "2")
	require.NoError(t, err)
	require.NoError(t, cart.Clear(ctx))
	assert.Equal(t, 0, cart.View().Count)
}

func TestCartView_ConsistentUnderConcurrentAdds(t *testing.T) {
	_, cart, _ := newCheckout(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = cart.AddProduct(ctx, productdom.Product{ID: "1", Title: "Phone", Price: 10.5})
		}
	}()

	for i := 0; i < 200; i++ {
		v := cart.View()
		n := 0
		for _, l := range v.Items {
			n += l.Quantity
		}
		assert.Equal(t, n, v.Count)
		assert.True(t, v.Total.Equal(decimal.NewFromFloat(10.5).Mul(decimal.NewFromInt(int64(n)))), v.Total.String())
	}
	wg.Wait()
	assert.Equal(t, 200, cart.View().Count)
}
