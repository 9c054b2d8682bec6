// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	productdom "storefront/internal/domain/product"
)

var (
	ErrInvalidCart = errors.New("cart: invalid")
	ErrInvalidItem = errors.New("cart: invalid item")
)

// CartItem represents "one line item" in a cart.
// Uniqueness is defined by ID (= product id).
type CartItem struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Thumbnail string  `json:"thumbnail"`
	Quantity  int     `json:"quantity"`
}

// Subtotal is price x quantity (unrounded).
func (it CartItem) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Cart is the cart slice state.
//   - Items keeps insertion order (= add order)
//   - at most one CartItem per ID, Quantity >= 1
//
// NOTE:
// - quantity が 0 以下になる更新は「削除」として扱う（0 の行は残さない）
type Cart struct {
	Items []CartItem `json:"items"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{Items: []CartItem{}}
}

// ItemFromProduct builds the line item snapshot stored in the cart.
func ItemFromProduct(p productdom.Product) CartItem {
	return CartItem{
		ID:        strings.TrimSpace(p.ID),
		Title:     p.Title,
		Price:     p.Price,
		Thumbnail: p.Thumbnail,
		Quantity:  1,
	}
}

// Add increments quantity by 1 when the id already exists,
// otherwise appends the item with quantity 1.
func (c *Cart) Add(item CartItem) error {
	if c == nil {
		return ErrInvalidCart
	}

	id := strings.TrimSpace(item.ID)
	if id == "" || item.Price < 0 || math.IsNaN(item.Price) || math.IsInf(item.Price, 0) {
		return ErrInvalidItem
	}

	if c.Items == nil {
		c.Items = []CartItem{}
	}

	if idx := findItemIndex(c.Items, id); idx >= 0 {
		c.Items[idx].Quantity++
		return nil
	}

	item.ID = id
	item.Quantity = 1
	c.Items = append(c.Items, item)
	return nil
}

// Remove deletes the item with id. Absent id is a no-op.
func (c *Cart) Remove(id string) {
	if c == nil {
		return
	}
	if idx := findItemIndex(c.Items, strings.TrimSpace(id)); idx >= 0 {
		c.Items = removeIndex(c.Items, idx)
	}
}

// SetQuantity sets quantity for id.
// If quantity <= 0, it removes the item from the cart.
// Unknown id is a no-op (quantity updates never create lines).
func (c *Cart) SetQuantity(id string, quantity int) {
	if c == nil {
		return
	}

	idx := findItemIndex(c.Items, strings.TrimSpace(id))
	if idx < 0 {
		return
	}
	if quantity <= 0 {
		c.Items = removeIndex(c.Items, idx)
		return
	}
	c.Items[idx].Quantity = quantity
}

// Clear empties the cart.
func (c *Cart) Clear() {
	if c == nil {
		return
	}
	c.Items = []CartItem{}
}

// Consume subtracts ordered quantities from the cart (lines reaching 0 are
// removed). Lines or units added after the order snapshot was taken stay.
func (c *Cart) Consume(ordered []CartItem) {
	if c == nil {
		return
	}
	for _, it := range ordered {
		idx := findItemIndex(c.Items, strings.TrimSpace(it.ID))
		if idx < 0 {
			continue
		}
		c.SetQuantity(it.ID, c.Items[idx].Quantity-it.Quantity)
	}
}

// Total is the sum of price x quantity. No rounding is applied here.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	if c == nil {
		return total
	}
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Count is the number of units in the cart (navbar badge).
func (c *Cart) Count() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Find returns the line for id.
func (c *Cart) Find(id string) (CartItem, bool) {
	if c == nil {
		return CartItem{}, false
	}
	if idx := findItemIndex(c.Items, strings.TrimSpace(id)); idx >= 0 {
		return c.Items[idx], true
	}
	return CartItem{}, false
}

// Clone returns a deep copy.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return New()
	}
	return &Cart{Items: cloneItems(c.Items)}
}

// Normalize enforces invariants on data that did not come through Add
// (e.g. rehydrated from storage): drops invalid lines, merges duplicate ids
// into the first occurrence, keeps first-seen order.
func (c *Cart) Normalize() {
	if c == nil {
		return
	}
	c.Items = normalizeAndMerge(c.Items)
}

// ----------------------------
// Helpers
// ----------------------------

func findItemIndex(items []CartItem, id string) int {
	if id == "" {
		return -1
	}
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func removeIndex(items []CartItem, idx int) []CartItem {
	if idx < 0 || idx >= len(items) {
		return items
	}
	// preserve order
	out := make([]CartItem, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...)
}

func normalizeAndMerge(src []CartItem) []CartItem {
	out := make([]CartItem, 0, len(src))
	seen := map[string]int{}

	for _, it := range src {
		id := strings.TrimSpace(it.ID)
		if id == "" || it.Quantity <= 0 || it.Price < 0 {
			continue
		}
		if idx, ok := seen[id]; ok {
			out[idx].Quantity += it.Quantity
			continue
		}
		it.ID = id
		seen[id] = len(out)
		out = append(out, it)
	}
	return out
}

func cloneItems(src []CartItem) []CartItem {
	cp := make([]CartItem, len(src))
	copy(cp, src)
	return cp
}
