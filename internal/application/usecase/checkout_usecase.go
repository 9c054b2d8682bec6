// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"storefront/internal/application/store"
	orderdom "storefront/internal/domain/order"
)

// CheckoutUsecase turns the cart into a pending order.
//   - requires an authenticated user
//   - ordered lines leave the cart only after the order was created
type CheckoutUsecase struct {
	orders orderdom.Repository
	state  *store.Store
	log    *zap.Logger
	now    func() time.Time
}

func NewCheckoutUsecase(orders orderdom.Repository, state *store.Store, log *zap.Logger) *CheckoutUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &CheckoutUsecase{
		orders: orders,
		state:  state,
		log:    log.Named("checkout_uc"),
		now:    time.Now,
	}
}

// PlaceOrder creates the order and removes the ordered quantities from the
// cart. A failed cart update after a successful create is logged, not
// returned: the order exists either way.
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, in ShippingForm) (orderdom.Order, error) {
	if u == nil || u.orders == nil || u.state == nil {
		return orderdom.Order{}, ErrNotConfigured
	}

	user, ok := u.state.User()
	if !ok {
		return orderdom.Order{}, ErrLoginRequired
	}

	items := u.state.CartItems()
	if len(items) == 0 {
		return orderdom.Order{}, ErrEmptyCart
	}

	ship := orderdom.NormalizeShipping(in)
	if err := validateForm(ship); err != nil {
		return orderdom.Order{}, err
	}

	o, err := orderdom.NewPending(user.UID, items, ship)
	if err != nil {
		return orderdom.Order{}, err
	}
	o.CreatedAt = u.now().UTC()

	id, err := u.orders.Create(ctx, o)
	if err != nil {
		u.log.Warn("create order failed", zap.String("userId", user.UID), zap.Error(err))
		return orderdom.Order{}, err
	}
	o.ID = id

	if err := u.state.ConsumeCart(ctx, o.Items); err != nil {
		u.log.Warn("update cart after checkout failed", zap.String("orderId", id), zap.Error(err))
	}

	u.log.Info("order placed",
		zap.String("orderId", id),
		zap.String("userId", user.UID),
		zap.Int("lines", len(o.Items)),
		zap.String("total", o.Total.StringFixed(2)),
	)
	return o, nil
}
