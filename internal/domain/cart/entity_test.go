package cart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productdom "storefront/internal/domain/product"
)

func item(id string, price float64) CartItem {
	return CartItem{ID: id, Title: id, Price: price}
}

func TestAdd(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(item("a", 2)))
	require.NoError(t, c.Add(item(" a ", 2)))
	require.NoError(t, c.Add(item("b", 1)))

	require.Len(t, c.Items, 2)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, "b", c.Items[1].ID)
	assert.Equal(t, 3, c.Count())
}

func TestAdd_IgnoresIncomingQuantity(t *testing.T) {
	c := New()
	it := item("a", 2)
	it.Quantity = 40
	require.NoError(t, c.Add(it))
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestAdd_Invalid(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.Add(item("", 1)), ErrInvalidItem)
	assert.ErrorIs(t, c.Add(item("x", -1)), ErrInvalidItem)
	assert.ErrorIs(t, c.Add(item("x", math.NaN())), ErrInvalidItem)
	assert.ErrorIs(t, c.Add(item("x", math.Inf(1))), ErrInvalidItem)

	var nilCart *Cart
	assert.ErrorIs(t, nilCart.Add(item("x", 1)), ErrInvalidCart)
	assert.Empty(t, c.Items)
}

func TestRemove_PreservesOrder(t *testing.T) {
	c := New()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, c.Add(item(id, 1)))
	}
	c.Remove("b")
	c.Remove("zzz")

	require.Len(t, c.Items, 2)
	assert.Equal(t, "a", c.Items[0].ID)
	assert.Equal(t, "c", c.Items[1].ID)
}

func TestSetQuantity(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(item("a", 1.5)))

	c.SetQuantity("a", 4)
	assert.Equal(t, "6", c.Total().String())

	c.SetQuantity("missing", 3)
	assert.Len(t, c.Items, 1)

	c.SetQuantity("a", 0)
	assert.Empty(t, c.Items)
}

func TestConsume_SubtractsOrderedQuantities(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(item("a", 1)))
	require.NoError(t, c.Add(item("b", 2)))
	ordered := c.Clone().Items

	require.NoError(t, c.Add(item("a", 1)))
	require.NoError(t, c.Add(item("late", 3)))

	c.Consume(ordered)
	require.Len(t, c.Items, 2)
	assert.Equal(t, "a", c.Items[0].ID)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, "late", c.Items[1].ID)

	c.Consume([]CartItem{{ID: "gone", Quantity: 1}, {ID: "a", Quantity: 5}})
	require.Len(t, c.Items, 1)
	assert.Equal(t, "late", c.Items[0].ID)
}

func TestTotal_ExactDecimal(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(item("a", 0.1)))
	require.NoError(t, c.Add(item("b", 0.2)))
	assert.Equal(t, "0.3", c.Total().String())
}

func TestFindAndClone(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(item("a", 1)))

	it, ok := c.Find("a")
	require.True(t, ok)
	assert.Equal(t, 1, it.Quantity)
	_, ok = c.Find("b")
	assert.False(t, ok)

	cp := c.Clone()
	cp.Items[0].Quantity = 9
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestNormalize(t *testing.T) {
	c := &Cart{Items: []CartItem{
		{ID: "b", Price: 1, Quantity: 1},
		{ID: "a", Price: 1, Quantity: 2},
		{ID: "b", Price: 1, Quantity: 3},
		{ID: "", Price: 1, Quantity: 1},
		{ID: "c", Price: -1, Quantity: 1},
	}}
	c.Normalize()

	require.Len(t, c.Items, 2)
	assert.Equal(t, "b", c.Items[0].ID)
	assert.Equal(t, 4, c.Items[0].Quantity)
	assert.Equal(t, "a", c.Items[1].ID)
}

func TestItemFromProduct(t *testing.T) {
	it := ItemFromProduct(productdom.Product{ID: " 7 ", Title: "Phone", Price: 99, Thumbnail: "t.png", Stock: 3})
	assert.Equal(t, CartItem{ID: "7", Title: "Phone", Price: 99, Thumbnail: "t.png", Quantity: 1}, it)
}
