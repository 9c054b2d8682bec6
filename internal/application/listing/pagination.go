// internal/application/listing/pagination.go
package listing

import (
	"net/url"
	"strconv"
	"strings"

	productdom "storefront/internal/domain/product"
)

// DefaultDelta is how many pages are shown on each side of the current one.
const DefaultDelta = 2

// PageItem is one pagination control: a page number or an ellipsis.
type PageItem struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

func (it PageItem) String() string {
	if it.Ellipsis {
		return "..."
	}
	return strconv.Itoa(it.Page)
}

// PageRange returns first + last page plus current±delta, with every gap
// collapsed into a single ellipsis.
//
//	PageRange(5, 20, 2) => 1 ... 3 4 5 6 7 ... 20
func PageRange(current, totalPages, delta int) []PageItem {
	if totalPages <= 1 {
		return []PageItem{{Page: 1}}
	}
	if delta < 0 {
		delta = 0
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	pages := []int{1}
	for i := current - delta; i <= current+delta; i++ {
		if i > 1 && i < totalPages {
			pages = append(pages, i)
		}
	}
	pages = append(pages, totalPages)

	out := make([]PageItem, 0, len(pages)+2)
	prev := 0
	for _, p := range pages {
		if prev > 0 && p-prev > 1 {
			out = append(out, PageItem{Ellipsis: true})
		}
		out = append(out, PageItem{Page: p})
		prev = p
	}
	return out
}

// TotalPages is ceil(total / DefaultPageSize).
func TotalPages(total int) int {
	return TotalPagesFor(total, productdom.DefaultPageSize)
}

func TotalPagesFor(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Values mirrors the view into navigable URL query values.
// page is omitted when 1, category when all. The query is not mirrored.
func (v View) Values() url.Values {
	vals := url.Values{}
	if c := normalizeCategory(v.Category); c != "" {
		vals.Set("category", c)
	}
	if v.Page > 1 {
		vals.Set("page", strconv.Itoa(v.Page))
	}
	return vals
}

// FromValues restores a view from URL query values. Unknown or malformed
// values fall back to page 1 / all categories.
func FromValues(vals url.Values) View {
	v := View{Page: 1}
	if vals == nil {
		return v
	}
	v.Category = normalizeCategory(vals.Get("category"))
	if p, err := strconv.Atoi(strings.TrimSpace(vals.Get("page"))); err == nil && p > 1 {
		v.Page = p
	}
	return v
}
