// internal/application/usecase/notification.go
package usecase

import (
	"errors"

	authdom "storefront/internal/domain/auth"
	orderdom "storefront/internal/domain/order"
	productdom "storefront/internal/domain/product"
)

// Level of a transient user-facing notification (toast).
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is shown once and never persisted.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// CrashMessage replaces the output of a surface that panicked.
const CrashMessage = "Something went wrong. Please try refreshing the page"

func Success(msg string) Notification { return Notification{Level: LevelSuccess, Message: msg} }
func Failure(msg string) Notification { return Notification{Level: LevelError, Message: msg} }

// Op names a user-initiated operation for message lookup.
type Op string

const (
	OpRegister       Op = "register"
	OpLogin          Op = "login"
	OpLogout         Op = "logout"
	OpForgotPassword Op = "forgotPassword"
	OpLoadProfile    Op = "loadProfile"
	OpUpdateProfile  Op = "updateProfile"
	OpUpdatePassword Op = "updatePassword"
	OpAddToCart      Op = "addToCart"
	OpRemoveFromCart Op = "removeFromCart"
	OpUpdateCart     Op = "updateCart"
	OpClearCart      Op = "clearCart"
	OpCheckout       Op = "checkout"
	OpLoadOrders     Op = "loadOrders"
	OpFetchProducts  Op = "fetchProducts"
	OpFetchProduct   Op = "fetchProduct"
	OpFetchCategory  Op = "filterProducts"
	OpFetchOverview  Op = "fetchCategories"
	OpSearch         Op = "search"
	OpTheme          Op = "theme"
)

var successText = map[Op]string{
	OpRegister:       "Registration successful!",
	OpLogin:          "Login successful!",
	OpLogout:         "Logged out successfully",
	OpForgotPassword: "Password reset email sent successfully!",
	OpUpdateProfile:  "Profile updated successfully",
	OpUpdatePassword: "Password updated successfully",
	OpAddToCart:      "Added to cart!",
	OpRemoveFromCart: "Item removed from cart",
	OpUpdateCart:     "Cart updated",
	OpClearCart:      "Cart cleared",
	OpCheckout:       "Order placed successfully!",
}

var failureText = map[Op]string{
	OpRegister:       "Registration failed",
	OpLogin:          "Login failed",
	OpLogout:         "Logout failed",
	OpForgotPassword: "Failed to send reset email",
	OpLoadProfile:    "Failed to load profile data",
	OpUpdateProfile:  "Failed to update profile",
	OpUpdatePassword: "Failed to update password",
	OpAddToCart:      "Failed to add to cart",
	OpRemoveFromCart: "Failed to remove item",
	OpUpdateCart:     "Failed to update cart",
	OpClearCart:      "Failed to clear cart",
	OpCheckout:       "Failed to place order. Please try again.",
	OpLoadOrders:     "Failed to load orders",
	OpFetchProducts:  "Failed to fetch products",
	OpFetchProduct:   "Failed to fetch product details",
	OpFetchCategory:  "Failed to filter products",
	OpFetchOverview:  "Failed to fetch categories",
	OpSearch:         "Search failed",
	OpTheme:          "Failed to save theme",
}

// SuccessMessage is the confirmation text for op ("" when op has none).
func SuccessMessage(op Op) string {
	return successText[op]
}

// Message maps an operation failure to user-facing text.
func Message(op Op, err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}

	switch {
	case errors.Is(err, ErrLoginRequired):
		if op == OpCheckout {
			return "Please login to proceed with checkout"
		}
		return "Please log in to continue"
	case errors.Is(err, ErrEmptyCart):
		return "Your cart is empty"
	case errors.Is(err, productdom.ErrNotFound):
		return "Product not found"
	case errors.Is(err, orderdom.ErrInvalidStatus):
		return "Unknown order status"
	}

	switch op {
	case OpRegister:
		switch {
		case errors.Is(err, authdom.ErrEmailInUse):
			return "Email already in use"
		case errors.Is(err, authdom.ErrWeakPassword):
			return "Password should be at least 6 characters"
		}
	case OpLogin:
		if errors.Is(err, authdom.ErrInvalidCredentials) || errors.Is(err, authdom.ErrAccountNotFound) {
			return "Invalid email or password"
		}
	case OpForgotPassword:
		if errors.Is(err, authdom.ErrAccountNotFound) {
			return "No account found with this email"
		}
	case OpUpdateProfile, OpUpdatePassword:
		switch {
		case errors.Is(err, authdom.ErrEmailInUse):
			return failureText[op] + ": Email already in use"
		case errors.Is(err, authdom.ErrWeakPassword):
			return failureText[op] + ": Password should be at least 6 characters"
		}
		return failureText[op] + ": " + err.Error()
	}

	if msg, ok := failureText[op]; ok {
		return msg
	}
	return "Something went wrong"
}

// Notify builds the notification for an operation outcome.
func Notify(op Op, err error) Notification {
	if err != nil {
		return Failure(Message(op, err))
	}
	return Success(SuccessMessage(op))
}
