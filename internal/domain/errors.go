package domain

import "errors"

var (
	ErrItemNotFound = errors.New("item not found")
	ErrCartNotFound = errors.New("cart not found")
	// ErrUserNotFound is returned by identity lookups performed upstream of the cart.
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")

	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrInvalidQuantity  = errors.New("quantity must be between 1 and 2147483647")
	ErrInvalidPrice     = errors.New("price must be a non-negative amount with at most 2 decimal places")
	ErrInvalidProduct   = errors.New("product reference is incomplete")
)
