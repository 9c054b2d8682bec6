// internal/adapters/in/cli/order_cmd.go
package cli

import (
	"github.com/spf13/cobra"

	"storefront/internal/adapters/in/tui"
	"storefront/internal/application/guard"
	"storefront/internal/application/usecase"
)

func (a *app) checkoutCmd() *cobra.Command {
	var in usecase.ShippingForm
	cmd := route(&cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart (shipping defaults to the profile)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			if user, ok := cont.State.User(); ok {
				fill := func(flag string, dst *string, v string) {
					if !cmd.Flags().Changed(flag) {
						*dst = v
					}
				}
				fill("address", &in.ShippingAddress, user.Address)
				fill("city", &in.City, user.City)
				fill("postal-code", &in.PostalCode, user.PostalCode)
				fill("phone", &in.Phone, user.Phone)
			}

			o, err := cont.Checkout.PlaceOrder(cmd.Context(), in)
			if err := a.report(cmd, usecase.OpCheckout, err); err != nil {
				return err
			}
			a.print(cmd, tui.Order(a.styles(), o))
			return nil
		},
	}, guard.RouteCheckout)

	f := cmd.Flags()
	f.StringVar(&in.ShippingAddress, "address", "", "shipping address")
	f.StringVar(&in.City, "city", "", "city")
	f.StringVar(&in.PostalCode, "postal-code", "", "postal code")
	f.StringVar(&in.Phone, "phone", "", "phone number")
	return cmd
}

func (a *app) ordersCmd() *cobra.Command {
	var status string
	cmd := route(&cobra.Command{
		Use:   "orders",
		Short: "List your orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			orders, err := cont.Orders.List(cmd.Context(), status)
			if err != nil {
				return a.report(cmd, usecase.OpLoadOrders, err)
			}
			a.print(cmd, tui.Orders(a.styles(), orders))
			return nil
		},
	}, guard.RouteOrders)
	cmd.Flags().StringVar(&status, "status", "all", "filter: all|pending|processing|shipped|delivered")
	return cmd
}
