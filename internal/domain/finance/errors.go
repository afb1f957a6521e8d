package finance

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidType         = errors.New("transaction type must be income or expense")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidSource       = errors.New("source is required")
)
