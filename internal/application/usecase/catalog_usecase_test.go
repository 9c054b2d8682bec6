package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productdom "storefront/internal/domain/product"
)

func TestOverview_IsolatesFailuresAndKeepsOrder(t *testing.T) {
	cat := &fakeCatalog{
		cats: []productdom.Category{
			{Slug: "beauty", Name: "Beauty"},
			{Slug: "laptops", Name: "Laptops"},
			{Slug: "groceries", Name: "Groceries"},
		},
		failCat: map[string]bool{"laptops": true},
	}
	uc := NewCatalogUsecase(cat, nil)

	out, err := uc.Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "beauty", out[0].Category.Slug)
	assert.Len(t, out[0].Products, OverviewPreviewSize)
	assert.False(t, out[0].Failed)

	assert.Equal(t, "laptops", out[1].Category.Slug)
	assert.True(t, out[1].Failed)
	assert.NotNil(t, out[1].Products)
	assert.Empty(t, out[1].Products)

	assert.Equal(t, "groceries-a", out[2].Products[0].ID)
}

func TestOverview_BoundedConcurrency(t *testing.T) {
	cats := make([]productdom.Category, 12)
	for i := range cats {
		cats[i] = productdom.Category{Slug: fmt.Sprintf("c%02d", i)}
	}
	gate := make(chan struct{})
	cat := &fakeCatalog{cats: cats, gate: gate}
	uc := NewCatalogUsecase(cat, nil)

	done := make(chan []CategoryPreview, 1)
	go func() {
		out, _ := uc.Overview(context.Background())
		done <- out
	}()

	require.Eventually(t, func() bool {
		cat.mu.Lock()
		defer cat.mu.Unlock()
		return cat.inflight == OverviewConcurrency
	}, time.Second, time.Millisecond)
	close(gate)

	out := <-done
	assert.Len(t, out, 12)
	assert.LessOrEqual(t, cat.maxFlight, OverviewConcurrency)
}

func TestOverview_CategoryListFailure(t *testing.T) {
	uc := NewCatalogUsecase(&fakeCatalog{}, nil)
	_, err := uc.Overview(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch categories", Message(OpFetchOverview, err))
}

func TestProduct_NotConfigured(t *testing.T) {
	var uc *CatalogUsecase
	_, err := uc.Product(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
