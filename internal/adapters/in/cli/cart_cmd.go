// internal/adapters/in/cli/cart_cmd.go
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"storefront/internal/adapters/in/tui"
	"storefront/internal/application/guard"
	"storefront/internal/application/usecase"
)

func (a *app) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and edit the persisted cart",
	}

	show := route(&cobra.Command{
		Use:   "show",
		Short: "Show cart lines and total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			a.print(cmd, tui.Cart(a.styles(), cont.Cart.View()))
			return nil
		},
	}, guard.RouteCart)

	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add one unit of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			p, err := cont.Cart.Add(cmd.Context(), args[0])
			if err := a.report(cmd, usecase.OpAddToCart, err); err != nil {
				return err
			}
			a.print(cmd, a.styles().Muted.Render(fmt.Sprintf("%s • cart has %d item(s)", p.Title, cont.State.CartCount())))
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			return a.report(cmd, usecase.OpRemoveFromCart, cont.Cart.Remove(cmd.Context(), args[0]))
		},
	}

	set := &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set a line quantity (0 or less removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity must be a number: %q", args[1])
			}
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			return a.report(cmd, usecase.OpUpdateCart, cont.Cart.SetQuantity(cmd.Context(), args[0], qty))
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			return a.report(cmd, usecase.OpClearCart, cont.Cart.Clear(cmd.Context()))
		},
	}

	cmd.AddCommand(show, add, remove, set, clearCmd)
	return cmd
}
