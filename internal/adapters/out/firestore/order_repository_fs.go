// internal/adapters/out/firestore/order_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"

	cartdom "storefront/internal/domain/cart"
	orderdom "storefront/internal/domain/order"
)

// OrderRepositoryFS implements order.Repository using Firestore.
//
// Collection design:
// - collection: orders
// - docId: auto
// - fields: userId, items(array), total(number), shippingDetails(map), status, createdAt(server timestamp)
type OrderRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

func (r *OrderRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("orders")
}

type orderItemDoc struct {
	ID        string  `firestore:"id"`
	Title     string  `firestore:"title"`
	Price     float64 `firestore:"price"`
	Thumbnail string  `firestore:"thumbnail"`
	Quantity  int     `firestore:"quantity"`
}

type orderDoc struct {
	UserID          string                   `firestore:"userId"`
	Items           []orderItemDoc           `firestore:"items"`
	Total           float64                  `firestore:"total"`
	ShippingDetails orderdom.ShippingDetails `firestore:"shippingDetails"`
	Status          string                   `firestore:"status"`
	CreatedAt       time.Time                `firestore:"createdAt,serverTimestamp"` // zero: server time
}

func (r *OrderRepositoryFS) Create(ctx context.Context, o orderdom.Order) (string, error) {
	if r == nil || r.Client == nil {
		return "", errors.New("order_repository_fs: firestore client is nil")
	}

	doc := orderDoc{
		UserID:          strings.TrimSpace(o.UserID),
		Items:           make([]orderItemDoc, 0, len(o.Items)),
		Total:           o.Total.InexactFloat64(),
		ShippingDetails: o.ShippingDetails,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
	}
	for _, it := range o.Items {
		doc.Items = append(doc.Items, orderItemDoc(it))
	}

	ref, _, err := r.col().Add(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("order_repository_fs: add: %w", err)
	}
	return ref.ID, nil
}

// ListByUser returns the user's orders unsorted (Firestore would need a
// composite index for where+orderBy).
func (r *OrderRepositoryFS) ListByUser(ctx context.Context, userID string) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}

	it := r.col().Where("userId", "==", strings.TrimSpace(userID)).Documents(ctx)
	defer it.Stop()

	out := []orderdom.Order{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("order_repository_fs: list: %w", err)
		}

		var d orderDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("order_repository_fs: decode %s: %w", snap.Ref.ID, err)
		}
		out = append(out, d.toDomain(snap.Ref.ID))
	}
	return out, nil
}

func (d orderDoc) toDomain(id string) orderdom.Order {
	items := make([]cartdom.CartItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, cartdom.CartItem(it))
	}
	return orderdom.Order{
		ID:              id,
		UserID:          d.UserID,
		Items:           items,
		Total:           decimal.NewFromFloat(d.Total),
		ShippingDetails: d.ShippingDetails,
		Status:          orderdom.Status(d.Status),
		CreatedAt:       d.CreatedAt.UTC(),
	}
}
