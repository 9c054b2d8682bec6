// internal/adapters/in/cli/browse_cmd.go
package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/adapters/in/tui"
	"storefront/internal/application/guard"
	"storefront/internal/application/usecase"
)

func (a *app) browseCmd() *cobra.Command {
	return route(&cobra.Command{
		Use:   "browse",
		Short: "Browse products interactively",
		Long:  "Paged product browser: ←/→ page, c cycle category, / search, a add to cart, t toggle theme, q quit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			if err := cont.WatchState(cmd.Context()); err != nil {
				a.log.Warn("state watcher disabled", zap.Error(err))
			}
			err = tui.Run(cmd.Context(), tui.Deps{
				Catalog:  cont.Catalog,
				Products: cont.Products,
				Cart:     cont.Cart,
				State:    cont.State,
				Log:      a.log,
			})
			if errors.Is(err, tui.ErrCrashed) {
				a.print(cmd, tui.Notification(a.styles(), usecase.Failure(usecase.CrashMessage)))
				return errReported
			}
			return err
		},
	}, guard.RouteProducts)
}
