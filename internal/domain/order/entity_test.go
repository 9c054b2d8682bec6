package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "storefront/internal/domain/cart"
)

var shipping = ShippingDetails{
	ShippingAddress: " 1 Main St ",
	City:            "Springfield",
	PostalCode:      "12345",
	Phone:           "555-0100",
}

func TestNewPending(t *testing.T) {
	items := []cartdom.CartItem{
		{ID: "1", Price: 10, Quantity: 2},
		{ID: "2", Price: 2.5, Quantity: 1},
	}
	o, err := NewPending("u1", items, shipping)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, "22.5", o.Total.String())
	assert.Equal(t, "1 Main St", o.ShippingDetails.ShippingAddress)
	assert.Len(t, o.Items, 2)

	items[0].Quantity = 100
	assert.Equal(t, 2, o.Items[0].Quantity)
}

func TestNewPending_Validation(t *testing.T) {
	items := []cartdom.CartItem{{ID: "1", Price: 1, Quantity: 1}}

	_, err := NewPending("", items, shipping)
	assert.ErrorIs(t, err, ErrInvalidUserID)

	_, err = NewPending("u1", nil, shipping)
	assert.ErrorIs(t, err, ErrInvalidItems)

	bad := shipping
	bad.Phone = "   "
	_, err = NewPending("u1", items, bad)
	assert.ErrorIs(t, err, ErrInvalidShipping)
}

func TestParseStatus(t *testing.T) {
	st, ok := ParseStatus(" Shipped ")
	require.True(t, ok)
	assert.Equal(t, StatusShipped, st)

	_, ok = ParseStatus("lost")
	assert.False(t, ok)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "89abcdef", Order{ID: "0123456789abcdef"}.ShortID())
	assert.Equal(t, "abc", Order{ID: "abc"}.ShortID())
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	orders := []Order{
		{ID: "a", CreatedAt: base},
		{ID: "b", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "c", CreatedAt: base.Add(time.Hour)},
		{ID: "d", CreatedAt: base.Add(2 * time.Hour)},
	}
	SortNewestFirst(orders)

	var ids []string
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"d", "b", "c", "a"}, ids)
}

func TestFilterByStatus(t *testing.T) {
	orders := []Order{
		{ID: "1", Status: StatusPending},
		{ID: "2", Status: StatusShipped},
		{ID: "3", Status: StatusPending},
	}

	assert.Len(t, FilterByStatus(orders, ""), 3)
	assert.Len(t, FilterByStatus(orders, "all"), 3)
	assert.Len(t, FilterByStatus(orders, "PENDING"), 2)
	assert.Empty(t, FilterByStatus(orders, "delivered"))
}
