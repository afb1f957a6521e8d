package finance

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	CreateTransaction(ctx context.Context, t *Transaction) error
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	UpdateTransaction(ctx context.Context, t *Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]Transaction, int64, error)
	// SumByType returns the ledger totals keyed by transaction type.
	SumByType(ctx context.Context) (map[string]decimal.Decimal, error)
}
