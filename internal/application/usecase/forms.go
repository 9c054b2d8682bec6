// internal/application/usecase/forms.go
package usecase

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	authdom "storefront/internal/domain/auth"
	orderdom "storefront/internal/domain/order"
)

// ValidationError is a form problem caught before any remote call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "usecase: invalid " + e.Field + ": " + e.Message
}

// ----------------------------
// Forms
// ----------------------------

type RegisterForm struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordForm struct {
	Email string `json:"email" validate:"required,email"`
}

// ProfileForm is the complete editable profile. UpdateProfile validates the
// merged result against it.
type ProfileForm struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

func profileFormOf(p authdom.Profile) ProfileForm {
	return ProfileForm{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Phone:      p.Phone,
		Address:    p.Address,
		City:       p.City,
		PostalCode: p.PostalCode,
	}
}

// Patch sets every editable field.
func (f ProfileForm) Patch() authdom.ProfilePatch {
	return authdom.ProfilePatch{
		FirstName:  &f.FirstName,
		LastName:   &f.LastName,
		Email:      &f.Email,
		Phone:      &f.Phone,
		Address:    &f.Address,
		City:       &f.City,
		PostalCode: &f.PostalCode,
	}
}

type PasswordForm struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=NewPassword"`
}

// ShippingForm is checkout input; all fields are required.
type ShippingForm = orderdom.ShippingDetails

// per-form overrides, keyed by "<Struct>.<Field>.<tag>"
var formMessages = map[string]string{
	"RegisterForm.ConfirmPassword.eqfield": "Passwords do not match",
	"RegisterForm.Password.min":            "Password should be at least 6 characters",
	"PasswordForm.ConfirmPassword.eqfield": "New passwords do not match",
	"PasswordForm.NewPassword.min":         "Password should be at least 6 characters",
}

var fieldLabels = map[string]string{
	"FirstName":       "First name",
	"LastName":        "Last name",
	"Username":        "Username",
	"Email":           "Email",
	"Password":        "Password",
	"ConfirmPassword": "Password confirmation",
	"NewPassword":     "New password",
	"ShippingAddress": "Shipping address",
	"City":            "City",
	"PostalCode":      "Postal code",
	"Phone":           "Phone",
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// validateForm trims nothing; callers trim where the value is stored.
// Only the first failing field is reported.
func validateForm(form any) error {
	err := formValidator().Struct(form)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return err
	}
	fe := ves[0]
	return &ValidationError{Field: fe.Field(), Message: messageFor(fe)}
}

func messageFor(fe validator.FieldError) string {
	ns := fe.StructNamespace() // RegisterForm.Password
	if i := strings.LastIndex(ns, "."); i >= 0 {
		if j := strings.LastIndex(ns[:i], "."); j >= 0 {
			ns = ns[j+1:]
		}
	}
	if msg, ok := formMessages[ns+"."+fe.Tag()]; ok {
		return msg
	}

	label := fieldLabels[fe.StructField()]
	if label == "" {
		label = fe.StructField()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Please enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "eqfield":
		return label + " does not match"
	default:
		return label + " is invalid"
	}
}
