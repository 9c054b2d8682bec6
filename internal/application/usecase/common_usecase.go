// internal/application/usecase/common_usecase.go
package usecase

import "errors"

var (
	ErrLoginRequired = errors.New("usecase: login required")
	ErrEmptyCart     = errors.New("usecase: cart is empty")
	ErrNotConfigured = errors.New("usecase: dependency is not configured")
)
