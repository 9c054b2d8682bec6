// internal/adapters/in/cli/catalog_cmd.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/adapters/in/tui"
	"storefront/internal/application/guard"
	"storefront/internal/application/listing"
	"storefront/internal/application/usecase"
)

func (a *app) productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List and inspect catalog products",
	}

	var (
		page     int
		category string
		query    string
	)
	list := route(&cobra.Command{
		Use:   "list",
		Short: "List one page of products (12 per page)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			orch, err := listing.New(cont.Catalog,
				listing.WithLogger(a.log),
				listing.WithView(listing.View{Page: page, Category: category, Query: query}),
			)
			if err != nil {
				return err
			}
			defer orch.Close()

			res := orch.Load(cmd.Context())
			if res.Err != nil {
				return a.report(cmd, listingOp(res.View), res.Err)
			}
			st := orch.State()
			s := a.styles()
			a.print(cmd, tui.ProductList(s, st.Products, -1))
			if pages := tui.Pages(s, st.View.Page, st.TotalPages); pages != "" {
				a.print(cmd, "\n"+pages)
			}
			a.print(cmd, s.Muted.Render(fmt.Sprintf("Page %d of %d • %d products", st.View.Page, max(st.TotalPages, 1), st.Total)))
			return nil
		},
	}, guard.RouteProducts)
	list.Flags().IntVar(&page, "page", 1, "page number (1-based)")
	list.Flags().StringVar(&category, "category", "", "category slug (empty for all)")
	list.Flags().StringVarP(&query, "query", "q", "", "search query")

	show := route(&cobra.Command{
		Use:   "show <id>",
		Short: "Show product details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			p, err := cont.Products.Product(cmd.Context(), args[0])
			if err != nil {
				return a.report(cmd, usecase.OpFetchProduct, err)
			}
			out, err := tui.ProductDetail(a.styles(), p, tui.DefaultWrap)
			if err != nil {
				return err
			}
			a.print(cmd, out)
			return nil
		},
	}, guard.RouteProductDetail)

	cmd.AddCommand(list, show)
	return cmd
}

func (a *app) categoriesCmd() *cobra.Command {
	var namesOnly bool
	cmd := route(&cobra.Command{
		Use:   "categories",
		Short: "Show every category with its first products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			if namesOnly {
				cats, err := cont.Products.Categories(cmd.Context())
				if err != nil {
					return a.report(cmd, usecase.OpFetchOverview, err)
				}
				a.print(cmd, tui.Categories(a.styles(), cats))
				return nil
			}
			cards, err := cont.Products.Overview(cmd.Context())
			if err != nil {
				return a.report(cmd, usecase.OpFetchOverview, err)
			}
			a.print(cmd, tui.Overview(a.styles(), cards))
			return nil
		},
	}, guard.RouteCategories)
	cmd.Flags().BoolVar(&namesOnly, "names", false, "list category names only")
	return cmd
}

func listingOp(v listing.View) usecase.Op {
	switch {
	case v.Query != "":
		return usecase.OpSearch
	case v.Category != "":
		return usecase.OpFetchCategory
	default:
		return usecase.OpFetchProducts
	}
}
