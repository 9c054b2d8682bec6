// internal/domain/product/catalog_port.go
package product

import "context"

// Catalog is the outbound port to the remote product catalog.
//
// Not-found policy:
// - GetByID returns ErrNotFound when the catalog has no such product.
type Catalog interface {
	List(ctx context.Context, page Page) (PageResult, error)
	GetByID(ctx context.Context, id string) (Product, error)
	Categories(ctx context.Context) ([]Category, error)
	ListByCategory(ctx context.Context, slug string, page Page) (PageResult, error)
	Search(ctx context.Context, query string, page Page) (PageResult, error)
}
