package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrEmptySelection      = errors.New("no cart items selected")
	ErrInvalidCheckout     = errors.New("invalid checkout request")
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrInvalidPayment      = errors.New("invalid payment status")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
)

// NotInCartError reports variation ids that were requested for checkout
// but are not in the buyer's cart.
type NotInCartError struct {
	VariationIDs []string
}

func (e *NotInCartError) Error() string {
	return fmt.Sprintf("variations not in cart: %v", e.VariationIDs)
}

// InsufficientStockError names the variation whose stock could not cover
// the requested quantity.
type InsufficientStockError struct {
	VariationName string
	Requested     int
	Available     int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.VariationName, e.Requested, e.Available)
}
