package httpout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productdom "storefront/internal/domain/product"
)

func catalogServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var seen []string
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.RequestURI())
		_, _ = w.Write([]byte(`{"products":[{"id":1,"title":"Essence Mascara","price":9.99,"discountPercentage":7.17,"stock":5,"thumbnail":"t1"}],"total":194,"skip":0,"limit":12}`))
	})
	mux.HandleFunc("/products/1", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.RequestURI())
		_, _ = w.Write([]byte(`{"id":1,"title":"Essence Mascara","price":9.99,"brand":"Essence","category":"beauty","images":["a","b"]}`))
	})
	mux.HandleFunc("/products/999", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Product with id '999' not found"}`))
	})
	mux.HandleFunc("/products/categories", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"slug":"beauty","name":"Beauty","url":"u"},"groceries",{"name":"Home Decoration"}]`))
	})
	mux.HandleFunc("/products/category/beauty", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.RequestURI())
		_, _ = w.Write([]byte(`{"products":[{"id":2,"title":"Powder","price":14.99}],"total":5}`))
	})
	mux.HandleFunc("/products/search", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.RequestURI())
		_, _ = w.Write([]byte(`{"products":[],"total":0}`))
	})
	mux.HandleFunc("/products/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestCatalogClient_List(t *testing.T) {
	srv, seen := catalogServer(t)
	c := NewCatalogClient(srv.URL+"/", nil)

	res, err := c.List(context.Background(), productdom.PageFor(3, 12))
	require.NoError(t, err)
	assert.Equal(t, 194, res.Total)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "1", res.Products[0].ID)
	assert.Equal(t, 7.17, res.Products[0].DiscountPercentage)
	assert.Equal(t, "/products?limit=12&skip=24", (*seen)[0])
}

func TestCatalogClient_GetByID(t *testing.T) {
	srv, _ := catalogServer(t)
	c := NewCatalogClient(srv.URL, nil)

	p, err := c.GetByID(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Essence", p.Brand)
	assert.Equal(t, []string{"a", "b"}, p.Images)

	_, err = c.GetByID(context.Background(), "999")
	assert.ErrorIs(t, err, productdom.ErrNotFound)

	_, err = c.GetByID(context.Background(), " ")
	assert.ErrorIs(t, err, productdom.ErrInvalidID)
}

func TestCatalogClient_Categories_MixedShapes(t *testing.T) {
	srv, _ := catalogServer(t)
	c := NewCatalogClient(srv.URL, nil)

	cats, err := c.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []productdom.Category{
		{Slug: "beauty", Name: "Beauty"},
		{Slug: "groceries"},
		{Slug: "Home Decoration", Name: "Home Decoration"},
	}, cats)
}

func TestCatalogClient_ListByCategoryAndSearch(t *testing.T) {
	srv, seen := catalogServer(t)
	c := NewCatalogClient(srv.URL, nil)
	ctx := context.Background()

	res, err := c.ListByCategory(ctx, "beauty", productdom.Page{Limit: 4})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Total)

	_, err = c.Search(ctx, " phone ", productdom.PageFor(2, 12))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/products/category/beauty?limit=4",
		"/products/search?limit=12&q=phone&skip=12",
	}, *seen)
}

func TestCatalogClient_UpstreamError(t *testing.T) {
	srv, _ := catalogServer(t)
	c := NewCatalogClient(srv.URL, nil)

	_, err := c.GetByID(context.Background(), "boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=502")
}
