// internal/application/usecase/catalog_usecase.go
package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	productdom "storefront/internal/domain/product"
)

const (
	// OverviewPreviewSize is how many products each category card shows.
	OverviewPreviewSize = 4
	// OverviewConcurrency bounds in-flight category fetches.
	OverviewConcurrency = 5
)

// CategoryPreview is one card on the categories page.
type CategoryPreview struct {
	Category productdom.Category  `json:"category"`
	Products []productdom.Product `json:"products"`
	Failed   bool                 `json:"failed,omitempty"`
}

// CatalogUsecase wraps the catalog port for read views.
type CatalogUsecase struct {
	catalog productdom.Catalog
	log     *zap.Logger
}

func NewCatalogUsecase(catalog productdom.Catalog, log *zap.Logger) *CatalogUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogUsecase{catalog: catalog, log: log.Named("catalog_uc")}
}

func (u *CatalogUsecase) Product(ctx context.Context, id string) (productdom.Product, error) {
	if u == nil || u.catalog == nil {
		return productdom.Product{}, ErrNotConfigured
	}
	return u.catalog.GetByID(ctx, strings.TrimSpace(id))
}

func (u *CatalogUsecase) Categories(ctx context.Context) ([]productdom.Category, error) {
	if u == nil || u.catalog == nil {
		return nil, ErrNotConfigured
	}
	return u.catalog.Categories(ctx)
}

// Overview loads every category with its first products.
// A failing category yields an empty list; only a failing category list
// fails the whole call. Output keeps the category order.
func (u *CatalogUsecase) Overview(ctx context.Context) ([]CategoryPreview, error) {
	cats, err := u.Categories(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]CategoryPreview, len(cats))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(OverviewConcurrency)

	for i, c := range cats {
		i, c := i, c
		out[i] = CategoryPreview{Category: c, Products: []productdom.Product{}}
		g.Go(func() error {
			res, err := u.catalog.ListByCategory(gctx, c.Slug, productdom.Page{Limit: OverviewPreviewSize})
			if err != nil {
				u.log.Warn("category preview failed", zap.String("category", c.Slug), zap.Error(err))
				out[i].Failed = true
				return nil
			}
			ps := res.Products
			if len(ps) > OverviewPreviewSize {
				ps = ps[:OverviewPreviewSize]
			}
			out[i].Products = append([]productdom.Product{}, ps...)
			return nil
		})
	}
	_ = g.Wait()
	return out, nil
}
