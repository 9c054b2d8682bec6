package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	authdom "storefront/internal/domain/auth"
)

func TestMessage(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		op   Op
		err  error
		want string
	}{
		{OpLogin, fmt.Errorf("wrap: %w", authdom.ErrAccountNotFound), "Invalid email or password"},
		{OpRegister, authdom.ErrWeakPassword, "Password should be at least 6 characters"},
		{OpUpdateProfile, authdom.ErrEmailInUse, "Failed to update profile: Email already in use"},
		{OpUpdatePassword, boom, "Failed to update password: boom"},
		{OpLoadOrders, ErrLoginRequired, "Please log in to continue"},
		{OpFetchProducts, boom, "Failed to fetch products"},
		{Op("unknown"), boom, "Something went wrong"},
		{OpLogin, nil, ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Message(c.op, c.err), "%s / %v", c.op, c.err)
	}
}

func TestNotify(t *testing.T) {
	assert.Equal(t, Notification{Level: LevelSuccess, Message: "Added to cart!"}, Notify(OpAddToCart, nil))
	assert.Equal(t, Notification{Level: LevelError, Message: "Failed to clear cart"}, Notify(OpClearCart, errors.New("x")))
}
