// internal/adapters/out/http/catalog_client.go
package httpout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	productdom "storefront/internal/domain/product"
)

// DefaultCatalogBaseURL is the public demo catalog.
const DefaultCatalogBaseURL = "https://dummyjson.com"

// CatalogClient implements product.Catalog against a dummyjson-compatible API.
//
// endpoints:
// - GET /products?limit&skip
// - GET /products/{id}
// - GET /products/categories
// - GET /products/category/{slug}?limit&skip
// - GET /products/search?q&limit&skip
type CatalogClient struct {
	baseURL string
	client  *http.Client
}

// baseURL example:
// - https://dummyjson.com
// - local: http://localhost:3000
func NewCatalogClient(baseURL string, client *http.Client) *CatalogClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultCatalogBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &CatalogClient{baseURL: baseURL, client: client}
}

// ----------------------------
// wire types
// ----------------------------

type productWire struct {
	ID                 json.Number `json:"id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	Price              float64     `json:"price"`
	DiscountPercentage float64     `json:"discountPercentage"`
	Rating             float64     `json:"rating"`
	Stock              int         `json:"stock"`
	Brand              string      `json:"brand"`
	Category           string      `json:"category"`
	Thumbnail          string      `json:"thumbnail"`
	Images             []string    `json:"images"`
}

func (w productWire) toDomain() productdom.Product {
	return productdom.Product{
		ID:                 w.ID.String(),
		Title:              w.Title,
		Description:        w.Description,
		Price:              w.Price,
		DiscountPercentage: w.DiscountPercentage,
		Rating:             w.Rating,
		Stock:              w.Stock,
		Brand:              w.Brand,
		Category:           w.Category,
		Thumbnail:          w.Thumbnail,
		Images:             w.Images,
	}
}

type listWire struct {
	Products []productWire `json:"products"`
	Total    int           `json:"total"`
}

func (w listWire) toDomain() productdom.PageResult {
	out := productdom.PageResult{
		Products: make([]productdom.Product, 0, len(w.Products)),
		Total:    w.Total,
	}
	for _, p := range w.Products {
		out.Products = append(out.Products, p.toDomain())
	}
	return out
}

// categoryWire accepts both shapes the API has served:
// plain strings ("smartphones") and objects ({"slug","name","url"}).
type categoryWire struct {
	productdom.Category
}

func (c *categoryWire) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		c.Slug = s
		c.Name = ""
		return nil
	}
	var obj struct {
		Slug string `json:"slug"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	c.Slug = obj.Slug
	c.Name = obj.Name
	if c.Slug == "" {
		c.Slug = obj.Name
	}
	return nil
}

// ----------------------------
// product.Catalog
// ----------------------------

func (c *CatalogClient) List(ctx context.Context, page productdom.Page) (productdom.PageResult, error) {
	var w listWire
	if err := c.getJSON(ctx, "/products", pageQuery(page), &w); err != nil {
		return productdom.PageResult{}, err
	}
	return w.toDomain(), nil
}

func (c *CatalogClient) GetByID(ctx context.Context, id string) (productdom.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.Product{}, productdom.ErrInvalidID
	}
	var w productWire
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(id), nil, &w); err != nil {
		return productdom.Product{}, err
	}
	return w.toDomain(), nil
}

func (c *CatalogClient) Categories(ctx context.Context) ([]productdom.Category, error) {
	var ws []categoryWire
	if err := c.getJSON(ctx, "/products/categories", nil, &ws); err != nil {
		return nil, err
	}
	out := make([]productdom.Category, 0, len(ws))
	for _, w := range ws {
		if strings.TrimSpace(w.Slug) == "" {
			continue
		}
		out = append(out, w.Category)
	}
	return out, nil
}

func (c *CatalogClient) ListByCategory(ctx context.Context, slug string, page productdom.Page) (productdom.PageResult, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return c.List(ctx, page)
	}
	var w listWire
	if err := c.getJSON(ctx, "/products/category/"+url.PathEscape(slug), pageQuery(page), &w); err != nil {
		return productdom.PageResult{}, err
	}
	return w.toDomain(), nil
}

func (c *CatalogClient) Search(ctx context.Context, query string, page productdom.Page) (productdom.PageResult, error) {
	q := pageQuery(page)
	q.Set("q", strings.TrimSpace(query))
	var w listWire
	if err := c.getJSON(ctx, "/products/search", q, &w); err != nil {
		return productdom.PageResult{}, err
	}
	return w.toDomain(), nil
}

// ----------------------------
// helpers
// ----------------------------

func pageQuery(p productdom.Page) url.Values {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Skip > 0 {
		q.Set("skip", strconv.Itoa(p.Skip))
	}
	return q
}

func (c *CatalogClient) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	if c == nil {
		return errors.New("catalog client is nil")
	}
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog: GET %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return productdom.ErrNotFound
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
		return fmt.Errorf("catalog: GET %s failed status=%d body=%s", path, res.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("catalog: decode %s: %w", path, err)
	}
	return nil
}
