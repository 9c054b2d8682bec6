// internal/adapters/in/cli/theme_cmd.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storefront/internal/application/usecase"
)

func (a *app) themeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the colour theme",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current theme (dark|light)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			a.print(cmd, cont.State.Snapshot().Theme.Name())
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle",
		Short: "Switch between dark and light",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			if err := cont.State.ToggleDarkMode(cmd.Context()); err != nil {
				return a.report(cmd, usecase.OpTheme, err)
			}
			a.print(cmd, a.styles().Subtitle.Render(cont.State.Snapshot().Theme.Name()))
			return nil
		},
	}

	set := &cobra.Command{
		Use:       "set <dark|light>",
		Short:     "Set the theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"dark", "light"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var dark bool
			switch strings.ToLower(strings.TrimSpace(args[0])) {
			case "dark":
				dark = true
			case "light":
			default:
				return fmt.Errorf("theme must be dark or light, got %q", args[0])
			}
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			if err := cont.State.SetDarkMode(cmd.Context(), dark); err != nil {
				return a.report(cmd, usecase.OpTheme, err)
			}
			a.print(cmd, a.styles().Subtitle.Render(cont.State.Snapshot().Theme.Name()))
			return nil
		},
	}

	cmd.AddCommand(show, toggle, set)
	return cmd
}
