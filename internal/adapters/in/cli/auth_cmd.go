// internal/adapters/in/cli/auth_cmd.go
package cli

import (
	"github.com/spf13/cobra"

	"storefront/internal/adapters/in/tui"
	"storefront/internal/application/guard"
	"storefront/internal/application/usecase"
	authdom "storefront/internal/domain/auth"
)

func (a *app) registerCmd() *cobra.Command {
	var in usecase.RegisterForm
	cmd := route(&cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			_, err = cont.Auth.Register(cmd.Context(), in)
			return a.report(cmd, usecase.OpRegister, err)
		},
	}, guard.RouteRegister)

	f := cmd.Flags()
	f.StringVar(&in.FirstName, "first-name", "", "first name")
	f.StringVar(&in.LastName, "last-name", "", "last name")
	f.StringVar(&in.Username, "username", "", "username")
	f.StringVar(&in.Email, "email", "", "email")
	f.StringVar(&in.Password, "password", "", "password (at least 6 characters)")
	f.StringVar(&in.ConfirmPassword, "confirm-password", "", "repeat the password")
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var in usecase.LoginForm
	cmd := route(&cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			_, err = cont.Auth.Login(cmd.Context(), in)
			return a.report(cmd, usecase.OpLogin, err)
		},
	}, guard.RouteLogin)
	cmd.Flags().StringVar(&in.Email, "email", "", "email")
	cmd.Flags().StringVar(&in.Password, "password", "", "password")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			return a.report(cmd, usecase.OpLogout, cont.Auth.Logout(cmd.Context()))
		},
	}
}

func (a *app) forgotPasswordCmd() *cobra.Command {
	var in usecase.ForgotPasswordForm
	cmd := route(&cobra.Command{
		Use:   "forgot-password",
		Short: "Send a password reset email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			return a.report(cmd, usecase.OpForgotPassword, cont.Auth.ForgotPassword(cmd.Context(), in))
		},
	}, guard.RouteForgotPassword)
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	return cmd
}

func (a *app) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit your profile",
	}

	show := route(&cobra.Command{
		Use:   "show",
		Short: "Show the signed-in profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			p, err := cont.Auth.LoadProfile(cmd.Context())
			if err != nil {
				return a.report(cmd, usecase.OpLoadProfile, err)
			}
			a.print(cmd, tui.Profile(a.styles(), p))
			return nil
		},
	}, guard.RouteProfile)

	var in usecase.ProfileForm
	update := route(&cobra.Command{
		Use:   "update",
		Short: "Update profile fields (unset flags keep their value)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := cont.Auth.LoadProfile(cmd.Context()); err != nil {
				return a.report(cmd, usecase.OpLoadProfile, err)
			}

			var patch authdom.ProfilePatch
			set := func(flag string, dst **string, v *string) {
				if cmd.Flags().Changed(flag) {
					*dst = v
				}
			}
			set("first-name", &patch.FirstName, &in.FirstName)
			set("last-name", &patch.LastName, &in.LastName)
			set("email", &patch.Email, &in.Email)
			set("phone", &patch.Phone, &in.Phone)
			set("address", &patch.Address, &in.Address)
			set("city", &patch.City, &in.City)
			set("postal-code", &patch.PostalCode, &in.PostalCode)

			p, err := cont.Auth.UpdateProfile(cmd.Context(), patch)
			if err := a.report(cmd, usecase.OpUpdateProfile, err); err != nil {
				return err
			}
			a.print(cmd, tui.Profile(a.styles(), p))
			return nil
		},
	}, guard.RouteProfile)
	f := update.Flags()
	f.StringVar(&in.FirstName, "first-name", "", "first name")
	f.StringVar(&in.LastName, "last-name", "", "last name")
	f.StringVar(&in.Email, "email", "", "email")
	f.StringVar(&in.Phone, "phone", "", "phone")
	f.StringVar(&in.Address, "address", "", "address")
	f.StringVar(&in.City, "city", "", "city")
	f.StringVar(&in.PostalCode, "postal-code", "", "postal code")

	cmd.AddCommand(show, update)
	return cmd
}

func (a *app) passwordCmd() *cobra.Command {
	var in usecase.PasswordForm
	cmd := route(&cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cont, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			return a.report(cmd, usecase.OpUpdatePassword, cont.Auth.UpdatePassword(cmd.Context(), in))
		},
	}, guard.RouteProfile)
	f := cmd.Flags()
	f.StringVar(&in.CurrentPassword, "current", "", "current password")
	f.StringVar(&in.NewPassword, "new", "", "new password (at least 6 characters)")
	f.StringVar(&in.ConfirmPassword, "confirm", "", "repeat the new password")
	return cmd
}
