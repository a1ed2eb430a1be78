package domain

import "errors"

var (
	// ErrInvalidLine marks a malformed cart line (bad type, price, quantity).
	ErrInvalidLine = errors.New("invalid line item")

	// ErrStockConflict is the park backend refusing an order because
	// authoritative stock could not satisfy a requested quantity. The
	// local soft check may have passed; this is the check that counts.
	ErrStockConflict = errors.New("stock conflict")

	// ErrEmptyCart rejects a checkout attempt on an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
)
