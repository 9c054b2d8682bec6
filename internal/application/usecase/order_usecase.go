// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"strings"

	"storefront/internal/application/store"
	orderdom "storefront/internal/domain/order"
)

// OrderUsecase is the order history read side.
type OrderUsecase struct {
	orders orderdom.Repository
	state  *store.Store
}

func NewOrderUsecase(orders orderdom.Repository, state *store.Store) *OrderUsecase {
	return &OrderUsecase{orders: orders, state: state}
}

// List returns the signed-in user's orders, newest first, filtered by
// status ("" or "all" keeps everything).
func (u *OrderUsecase) List(ctx context.Context, status string) ([]orderdom.Order, error) {
	if u == nil || u.orders == nil || u.state == nil {
		return nil, ErrNotConfigured
	}
	user, ok := u.state.User()
	if !ok {
		return nil, ErrLoginRequired
	}

	s := strings.TrimSpace(status)
	if s != "" && !strings.EqualFold(s, "all") {
		if _, ok := orderdom.ParseStatus(s); !ok {
			return nil, orderdom.ErrInvalidStatus
		}
	}

	orders, err := u.orders.ListByUser(ctx, user.UID)
	if err != nil {
		return nil, err
	}
	orderdom.SortNewestFirst(orders)
	return orderdom.FilterByStatus(orders, s), nil
}
