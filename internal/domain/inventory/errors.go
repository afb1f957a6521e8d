package inventory

import "errors"

var (
	ErrItemNotFound           = errors.New("inventory item not found")
	ErrRentalNotFound         = errors.New("rental not found")
	ErrInsufficientAvailable  = errors.New("not enough available quantity")
	ErrAlreadyReturned        = errors.New("rental already returned")
	ErrNegativeQuantity       = errors.New("quantities cannot be negative")
	ErrCountersExceedQuantity = errors.New("available plus rented cannot exceed total quantity")
)
