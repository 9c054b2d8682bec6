// internal/application/listing/orchestrator.go
package listing

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	productdom "storefront/internal/domain/product"
)

var ErrNilCatalog = errors.New("listing: catalog is nil")

// View is the client-local listing state.
//   - Page is 1-based
//   - Category == "" means all categories
//   - Query != "" means search results are shown
type View struct {
	Page     int    `json:"page"`
	Category string `json:"category,omitempty"`
	Query    string `json:"query,omitempty"`
}

// State is what a surface renders.
type State struct {
	View       View                 `json:"view"`
	Products   []productdom.Product `json:"products"`
	Total      int                  `json:"total"`
	TotalPages int                  `json:"totalPages"`
	Loading    bool                 `json:"loading"`
	Err        error                `json:"-"`
}

// Result is the outcome of one fetch.
// Applied=false means a newer fetch was issued (or the orchestrator was
// closed) before this one resolved, so State was left untouched.
type Result struct {
	Seq      uint64
	View     View
	Products []productdom.Product
	Total    int
	Err      error
	Applied  bool
}

// Orchestrator coordinates page / category / query changes with catalog fetches.
// Every change issues exactly one fetch; only the latest issued fetch may
// replace the displayed products.
type Orchestrator struct {
	catalog  productdom.Catalog
	pageSize int
	log      *zap.Logger

	mu       sync.Mutex
	view     View
	seq      uint64
	closed   bool
	products []productdom.Product
	total    int
	loading  bool
	err      error
}

type Option func(*Orchestrator)

func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// WithView sets the initial view (e.g. restored from URL values).
func WithView(v View) Option {
	return func(o *Orchestrator) {
		o.view = normalizeView(v)
	}
}

func New(catalog productdom.Catalog, opts ...Option) (*Orchestrator, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}
	o := &Orchestrator{
		catalog:  catalog,
		pageSize: productdom.DefaultPageSize,
		log:      zap.NewNop(),
		view:     View{Page: 1},
		products: []productdom.Product{},
	}
	for _, opt := range opts {
		opt(o)
	}
	o.log = o.log.Named("listing")
	return o, nil
}

// ----------------------------
// Commands
// ----------------------------

// Load fetches the current view (initial mount / refresh).
func (o *Orchestrator) Load(ctx context.Context) Result {
	return o.run(ctx, func(v *View) {})
}

// SetPage moves to page. Pages below 1 are clamped to 1.
// With an active query the search results are paged.
func (o *Orchestrator) SetPage(ctx context.Context, page int) Result {
	return o.run(ctx, func(v *View) {
		if page < 1 {
			page = 1
		}
		v.Page = page
	})
}

// SetCategory switches the category filter, resets the page to 1 and drops
// any active query.
func (o *Orchestrator) SetCategory(ctx context.Context, slug string) Result {
	return o.run(ctx, func(v *View) {
		v.Category = normalizeCategory(slug)
		v.Query = ""
		v.Page = 1
	})
}

// Search shows results for query from page 1. A blank query returns to the
// category-filtered listing at the current page.
func (o *Orchestrator) Search(ctx context.Context, query string) Result {
	return o.run(ctx, func(v *View) {
		q := strings.TrimSpace(query)
		if q == "" {
			v.Query = ""
			return
		}
		v.Query = q
		v.Page = 1
	})
}

// Close suppresses results that resolve afterwards (view unmounted).
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	o.loading = false
	o.mu.Unlock()
}

// ----------------------------
// Reads
// ----------------------------

func (o *Orchestrator) View() View {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.view
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	ps := make([]productdom.Product, len(o.products))
	copy(ps, o.products)
	return State{
		View:       o.view,
		Products:   ps,
		Total:      o.total,
		TotalPages: TotalPagesFor(o.total, o.pageSize),
		Loading:    o.loading,
		Err:        o.err,
	}
}

// ----------------------------
// internals
// ----------------------------

func (o *Orchestrator) run(ctx context.Context, change func(*View)) Result {
	view, seq, ok := o.issue(change)
	if !ok {
		return Result{View: view}
	}

	res := Result{Seq: seq, View: view}
	page, err := o.fetch(ctx, view)
	if err != nil {
		res.Err = err
	} else {
		res.Products = page.Products
		res.Total = page.Total
	}

	res.Applied = o.apply(res)
	if !res.Applied {
		o.log.Debug("discard stale result",
			zap.Uint64("seq", seq),
			zap.Int("page", view.Page),
			zap.String("category", view.Category),
			zap.String("query", view.Query),
		)
	}
	return res
}

// issue applies the view change and takes a new sequence token.
func (o *Orchestrator) issue(change func(*View)) (View, uint64, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return o.view, 0, false
	}
	change(&o.view)
	o.seq++
	o.loading = true
	return o.view, o.seq, true
}

func (o *Orchestrator) apply(res Result) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || res.Seq != o.seq {
		return false
	}
	o.loading = false
	if res.Err != nil {
		o.err = res.Err
		return true
	}
	o.err = nil
	o.products = res.Products
	if o.products == nil {
		o.products = []productdom.Product{}
	}
	o.total = res.Total
	return true
}

func (o *Orchestrator) fetch(ctx context.Context, v View) (productdom.PageResult, error) {
	window := productdom.PageFor(v.Page, o.pageSize)
	switch {
	case v.Query != "":
		return o.catalog.Search(ctx, v.Query, window)
	case v.Category != "":
		return o.catalog.ListByCategory(ctx, v.Category, window)
	default:
		return o.catalog.List(ctx, window)
	}
}

func normalizeView(v View) View {
	if v.Page < 1 {
		v.Page = 1
	}
	v.Category = normalizeCategory(v.Category)
	v.Query = strings.TrimSpace(v.Query)
	return v
}

// AllCategories is accepted as an alias for "no filter".
const AllCategories = "All Categories"

func normalizeCategory(slug string) string {
	s := strings.TrimSpace(slug)
	if strings.EqualFold(s, AllCategories) || strings.EqualFold(s, "all") {
		return ""
	}
	return s
}
