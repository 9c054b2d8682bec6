// internal/domain/order/entity.go
package order

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	cartdom "storefront/internal/domain/cart"
)

// ========================================
// Status
// ========================================

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
)

// Statuses lists the known statuses in lifecycle order.
var Statuses = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered}

// ParseStatus is case-insensitive. Unknown values return false.
func ParseStatus(s string) (Status, bool) {
	v := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range Statuses {
		if st == v {
			return st, true
		}
	}
	return "", false
}

// ========================================
// Snapshot structs (stored in Order)
// ========================================

type ShippingDetails struct {
	ShippingAddress string `json:"shippingAddress" firestore:"shippingAddress" validate:"required"`
	City            string `json:"city" firestore:"city" validate:"required"`
	PostalCode      string `json:"postalCode" firestore:"postalCode" validate:"required"`
	Phone           string `json:"phone" firestore:"phone" validate:"required"`
}

// ========================================
// Entity
// ========================================

// Order is owned by the hosted database. The client creates it once and
// only reads it afterwards; Status is mutated externally.
type Order struct {
	ID              string             `json:"id"`
	UserID          string             `json:"userId"`
	Items           []cartdom.CartItem `json:"items"`
	Total           decimal.Decimal    `json:"total"`
	ShippingDetails ShippingDetails    `json:"shippingDetails"`
	Status          Status             `json:"status"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// ShortID is the last 8 characters of the id ("Order #xxxxxxxx").
func (o Order) ShortID() string {
	id := strings.TrimSpace(o.ID)
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}

// ========================================
// Errors
// ========================================

var (
	ErrInvalidUserID   = errors.New("order: invalid userId")
	ErrInvalidItems    = errors.New("order: invalid items")
	ErrInvalidShipping = errors.New("order: invalid shippingDetails")
	ErrInvalidStatus   = errors.New("order: invalid status")
	ErrNotFound        = errors.New("order: not found")
)

// ========================================
// Constructors
// ========================================

// NewPending builds an order draft from a cart snapshot.
// ID is assigned by the repository. CreatedAt is set by the caller before
// Create; a zero value lets the repository stamp it.
func NewPending(userID string, items []cartdom.CartItem, shipping ShippingDetails) (Order, error) {
	snap := &cartdom.Cart{Items: items}
	snap = snap.Clone()
	snap.Normalize()

	o := Order{
		UserID:          strings.TrimSpace(userID),
		Items:           snap.Items,
		Total:           snap.Total(),
		ShippingDetails: NormalizeShipping(shipping),
		Status:          StatusPending,
	}
	if err := o.validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ========================================
// Validation
// ========================================

func (o Order) validate() error {
	if o.UserID == "" {
		return ErrInvalidUserID
	}
	if len(o.Items) == 0 {
		return ErrInvalidItems
	}
	s := o.ShippingDetails
	if s.ShippingAddress == "" || s.City == "" || s.PostalCode == "" || s.Phone == "" {
		return ErrInvalidShipping
	}
	if _, ok := ParseStatus(string(o.Status)); !ok {
		return ErrInvalidStatus
	}
	return nil
}

// NormalizeShipping trims every field.
func NormalizeShipping(s ShippingDetails) ShippingDetails {
	return ShippingDetails{
		ShippingAddress: strings.TrimSpace(s.ShippingAddress),
		City:            strings.TrimSpace(s.City),
		PostalCode:      strings.TrimSpace(s.PostalCode),
		Phone:           strings.TrimSpace(s.Phone),
	}
}

// ========================================
// Read-side helpers
// ========================================

// SortNewestFirst sorts by CreatedAt descending (stable; ties keep id order).
func SortNewestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

// FilterByStatus keeps orders whose status matches (case-insensitive).
// An empty status or "all" keeps everything.
func FilterByStatus(orders []Order, status string) []Order {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" || s == "all" {
		return orders
	}
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if strings.EqualFold(string(o.Status), s) {
			out = append(out, o)
		}
	}
	return out
}
