package inventory

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListItems(ctx context.Context) ([]Item, error)
	GetItemByID(ctx context.Context, itemID string) (*Item, error)
	// GetItemForUpdate locks the item row for the duration of the
	// surrounding transaction so counter arithmetic cannot race.
	GetItemForUpdate(ctx context.Context, itemID string) (*Item, error)
	CreateItem(ctx context.Context, item *Item) error
	UpdateItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, itemID string) (bool, error)

	ListRentals(ctx context.Context) ([]Rental, error)
	GetRentalByID(ctx context.Context, rentalID string) (*Rental, error)
	GetRentalForUpdate(ctx context.Context, rentalID string) (*Rental, error)
	CreateRental(ctx context.Context, rental *Rental) error
	UpdateRental(ctx context.Context, rental *Rental) error

	// SumOpenRentalsByItem derives the rented quantity per item from
	// rentals still in the "rented" state.
	SumOpenRentalsByItem(ctx context.Context) (map[string]int, error)
}
