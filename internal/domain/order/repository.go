package order

import "context"

// Repository covers carts, orders and their payment transactions.
// CartLinesForUpdate must lock the underlying variation rows so stock
// checks and decrements inside a Transaction are race free.
type Repository interface {
	Transaction(ctx context.Context, fn func(repo Repository) error) error

	GetOrCreateCart(ctx context.Context, buyerID string) (*Cart, error)
	GetCartItems(ctx context.Context, cartID string) ([]CartItem, error)
	UpsertCartItem(ctx context.Context, item *CartItem) error
	DeleteCartItem(ctx context.Context, cartID, variationID string) error
	DeleteCartItems(ctx context.Context, cartID string, variationIDs []string) error
	CartLinesForUpdate(ctx context.Context, cartID string, variationIDs []string) ([]CartLine, error)
	UpdateVariationStock(ctx context.Context, variationID string, stock int, available bool) error

	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	UpdateOrder(ctx context.Context, o *Order) error
	ListOrders(ctx context.Context, filter ListFilter) ([]Order, int64, error)
	ListOrdersByBuyer(ctx context.Context, buyerID string) ([]Order, error)
	ListAllOrders(ctx context.Context) ([]Order, error)
	DeleteOrdersByIdentifiers(ctx context.Context, identifiers []string) (int64, error)
	CountOrdersByStatus(ctx context.Context) (map[string]int64, error)

	CreateOrderItems(ctx context.Context, items []OrderItem) error
	ListOrderItems(ctx context.Context, orderID string) ([]OrderItem, error)
	ListOrderItemsByOrderIDs(ctx context.Context, orderIDs []string) (map[string][]OrderItem, error)

	CreateStatusHistory(ctx context.Context, h *StatusHistory) error
	ListStatusHistory(ctx context.Context, orderID string) ([]StatusHistory, error)

	CreateTransaction(ctx context.Context, t *MarketTransaction) error
	GetTransaction(ctx context.Context, id string) (*MarketTransaction, error)
	GetTransactionByOrder(ctx context.Context, orderID string) (*MarketTransaction, error)
	UpdateTransaction(ctx context.Context, t *MarketTransaction) error
	ListTransactions(ctx context.Context, limit, offset int) ([]MarketTransaction, int64, error)
}
