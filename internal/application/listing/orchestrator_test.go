package listing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	productdom "storefront/internal/domain/product"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type call struct {
	kind  string
	arg   string
	limit int
	skip  int
}

// fakeCatalog records calls. If gates has an entry for a call key, the call
// blocks until that channel is closed.
type fakeCatalog struct {
	mu     sync.Mutex
	calls  []call
	gates  map[string]chan struct{}
	failOn string
}

func (f *fakeCatalog) record(kind, arg string, p productdom.Page) (productdom.PageResult, error) {
	key := fmt.Sprintf("%s:%s:%d", kind, arg, p.Skip)

	f.mu.Lock()
	f.calls = append(f.calls, call{kind: kind, arg: arg, limit: p.Limit, skip: p.Skip})
	gate := f.gates[key]
	fail := f.failOn == key
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if fail {
		return productdom.PageResult{}, errors.New("boom")
	}
	return productdom.PageResult{
		Products: []productdom.Product{{ID: key, Title: key}},
		Total:    100,
	}, nil
}

func (f *fakeCatalog) List(_ context.Context, p productdom.Page) (productdom.PageResult, error) {
	return f.record("list", "", p)
}

func (f *fakeCatalog) GetByID(context.Context, string) (productdom.Product, error) {
	return productdom.Product{}, productdom.ErrNotFound
}

func (f *fakeCatalog) Categories(context.Context) ([]productdom.Category, error) {
	return nil, nil
}

func (f *fakeCatalog) ListByCategory(_ context.Context, slug string, p productdom.Page) (productdom.PageResult, error) {
	return f.record("category", slug, p)
}

func (f *fakeCatalog) Search(_ context.Context, q string, p productdom.Page) (productdom.PageResult, error) {
	return f.record("search", q, p)
}

func (f *fakeCatalog) lastCall() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func newOrchestrator(t *testing.T, cat productdom.Catalog, opts ...Option) *Orchestrator {
	t.Helper()
	o, err := New(cat, opts...)
	require.NoError(t, err)
	return o
}

func TestNew_NilCatalog(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilCatalog)
}

func TestLoad_FetchesFirstPage(t *testing.T) {
	cat := &fakeCatalog{}
	o := newOrchestrator(t, cat)

	res := o.Load(context.Background())
	require.True(t, res.Applied)
	require.NoError(t, res.Err)
	assert.Equal(t, call{kind: "list", limit: 12, skip: 0}, cat.lastCall())

	st := o.State()
	assert.Len(t, st.Products, 1)
	assert.Equal(t, 100, st.Total)
	assert.Equal(t, 9, st.TotalPages)
	assert.False(t, st.Loading)
}

func TestSetPage_OneFetchPerChange(t *testing.T) {
	cat := &fakeCatalog{}
	o := newOrchestrator(t, cat)
	ctx := context.Background()

	o.SetPage(ctx, 3)
	assert.Len(t, cat.calls, 1)
	assert.Equal(t, 24, cat.lastCall().skip)

	o.SetPage(ctx, 0)
	assert.Equal(t, 1, o.View().Page)
	assert.Equal(t, 0, cat.lastCall().skip)
}

func TestSetCategory_ResetsPageAndQuery(t *testing.T) {
	cat := &fakeCatalog{}
	o := newOrchestrator(t, cat)
	ctx := context.Background()

	o.Search(ctx, "phone")
	o.SetPage(ctx, 4)
	o.SetCategory(ctx, "laptops")

	assert.Equal(t, View{Page: 1, Category: "laptops"}, o.View())
	assert.Equal(t, call{kind: "category", arg: "laptops", limit: 12}, cat.lastCall())

	o.SetCategory(ctx, "All Categories")
	assert.Equal(t, View{Page: 1}, o.View())
	assert.Equal(t, "list", cat.lastCall().kind)
}

func TestSearch_PagingWalksSearchResults(t *testing.T) {
	cat := &fakeCatalog{}
	o := newOrchestrator(t, cat)
	ctx := context.Background()

	o.SetPage(ctx, 3)
	o.Search(ctx, "  phone ")
	assert.Equal(t, View{Page: 1, Query: "phone"}, o.View())

	o.SetPage(ctx, 2)
	assert.Equal(t, call{kind: "search", arg: "phone", limit: 12, skip: 12}, cat.lastCall())
}

func TestSearch_BlankRestoresCategoryList(t *testing.T) {
	cat := &fakeCatalog{}
	o := newOrchestrator(t, cat)
	ctx := context.Background()

	o.SetCategory(ctx, "beauty")
	o.Search(ctx, "lipstick")
	require.Equal(t, "search", cat.lastCall().kind)

	res := o.Search(ctx, "   ")
	require.True(t, res.Applied)
	assert.Equal(t, View{Page: 1, Category: "beauty"}, o.View())
	assert.Equal(t, call{kind: "category", arg: "beauty", limit: 12}, cat.lastCall())
}

func TestFetchError_KeepsPreviousProducts(t *testing.T) {
	cat := &fakeCatalog{failOn: "list::12"}
	o := newOrchestrator(t, cat)
	ctx := context.Background()

	o.Load(ctx)
	res := o.SetPage(ctx, 2)
	require.True(t, res.Applied)
	require.Error(t, res.Err)

	st := o.State()
	assert.Error(t, st.Err)
	assert.Equal(t, "list::0", st.Products[0].ID)

	o.SetPage(ctx, 3)
	assert.NoError(t, o.State().Err)
}

func TestStaleResultDiscarded(t *testing.T) {
	slow := make(chan struct{})
	cat := &fakeCatalog{gates: map[string]chan struct{}{"search:old:0": slow}}
	o := newOrchestrator(t, cat)
	ctx := context.Background()

	done := make(chan Result, 1)
	go func() { done <- o.Search(ctx, "old") }()

	require.Eventually(t, func() bool {
		cat.mu.Lock()
		defer cat.mu.Unlock()
		return len(cat.calls) == 1
	}, time.Second, time.Millisecond)

	fresh := o.Search(ctx, "new")
	require.True(t, fresh.Applied)

	close(slow)
	stale := <-done
	assert.False(t, stale.Applied)
	assert.Less(t, stale.Seq, fresh.Seq)

	st := o.State()
	require.Len(t, st.Products, 1)
	assert.Equal(t, "search:new:0", st.Products[0].ID)
	assert.Equal(t, "new", st.View.Query)
}

func TestClose_SuppressesLateResults(t *testing.T) {
	slow := make(chan struct{})
	cat := &fakeCatalog{gates: map[string]chan struct{}{"list::0": slow}}
	o := newOrchestrator(t, cat)

	done := make(chan Result, 1)
	go func() { done <- o.Load(context.Background()) }()

	require.Eventually(t, func() bool {
		cat.mu.Lock()
		defer cat.mu.Unlock()
		return len(cat.calls) == 1
	}, time.Second, time.Millisecond)

	o.Close()
	close(slow)
	res := <-done

	assert.False(t, res.Applied)
	assert.Empty(t, o.State().Products)

	after := o.SetPage(context.Background(), 2)
	assert.False(t, after.Applied)
	assert.Len(t, cat.calls, 1)
}

func TestWithView_FromURL(t *testing.T) {
	cat := &fakeCatalog{}
	vals, err := url.ParseQuery("category=smartphones&page=3")
	require.NoError(t, err)

	o := newOrchestrator(t, cat, WithView(FromValues(vals)))
	o.Load(context.Background())

	assert.Equal(t, call{kind: "category", arg: "smartphones", limit: 12, skip: 24}, cat.lastCall())
	assert.Equal(t, vals, o.View().Values())
}
