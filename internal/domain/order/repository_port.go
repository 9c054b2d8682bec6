// internal/domain/order/repository_port.go
package order

import "context"

// Repository defines the persistence port for Order.
//
// Storage recommendation (Firestore):
// - collection: orders
// - docId: auto
// - fields: userId, items, total, shippingDetails, status, createdAt
type Repository interface {
	// Create stores a new order and returns its id.
	// A non-zero o.CreatedAt is stored as given.
	Create(ctx context.Context, o Order) (string, error)

	// ListByUser returns the user's orders. Order is NOT guaranteed;
	// callers sort (SortNewestFirst).
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}
