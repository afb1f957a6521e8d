package inventory

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	inventorydomain "github.com/Arzion032/binhi-fms-backend/internal/domain/inventory"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(inventorydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListItems(ctx context.Context) ([]inventorydomain.Item, error) {
	var items []inventorydomain.Item
	if err := r.db.WithContext(ctx).Order("item_name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetItemByID(ctx context.Context, itemID string) (*inventorydomain.Item, error) {
	var item inventorydomain.Item
	if err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventorydomain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) GetItemForUpdate(ctx context.Context, itemID string) (*inventorydomain.Item, error) {
	var item inventorydomain.Item
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", itemID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventorydomain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) CreateItem(ctx context.Context, item *inventorydomain.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PostgresRepository) UpdateItem(ctx context.Context, item *inventorydomain.Item) error {
	return r.db.WithContext(ctx).
		Model(&inventorydomain.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"item_name":    item.ItemName,
			"rental_price": item.RentalPrice,
			"quantity":     item.Quantity,
			"available":    item.Available,
			"rented":       item.Rented,
			"unit":         item.Unit,
			"category":     item.Category,
			"description":  item.Description,
			"updated_at":   item.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) DeleteItem(ctx context.Context, itemID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&inventorydomain.Item{}, "id = ?", itemID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListRentals(ctx context.Context) ([]inventorydomain.Rental, error) {
	var rentals []inventorydomain.Rental
	if err := r.db.WithContext(ctx).Order("rental_date desc").Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

func (r *PostgresRepository) GetRentalByID(ctx context.Context, rentalID string) (*inventorydomain.Rental, error) {
	var rental inventorydomain.Rental
	if err := r.db.WithContext(ctx).Where("id = ?", rentalID).First(&rental).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventorydomain.ErrRentalNotFound
		}
		return nil, err
	}
	return &rental, nil
}

func (r *PostgresRepository) GetRentalForUpdate(ctx context.Context, rentalID string) (*inventorydomain.Rental, error) {
	var rental inventorydomain.Rental
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", rentalID).
		First(&rental).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventorydomain.ErrRentalNotFound
		}
		return nil, err
	}
	return &rental, nil
}

func (r *PostgresRepository) CreateRental(ctx context.Context, rental *inventorydomain.Rental) error {
	return r.db.WithContext(ctx).Create(rental).Error
}

func (r *PostgresRepository) UpdateRental(ctx context.Context, rental *inventorydomain.Rental) error {
	return r.db.WithContext(ctx).
		Model(&inventorydomain.Rental{}).
		Where("id = ?", rental.ID).
		Updates(map[string]interface{}{
			"renter_name":    rental.RenterName,
			"contact_number": rental.ContactNumber,
			"quantity":       rental.Quantity,
			"notes":          rental.Notes,
			"return_date":    rental.ReturnDate,
			"status":         rental.Status,
		}).Error
}

func (r *PostgresRepository) SumOpenRentalsByItem(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		ItemID string `gorm:"column:item_id"`
		Total  int    `gorm:"column:total"`
	}
	if err := r.db.WithContext(ctx).
		Model(&inventorydomain.Rental{}).
		Select("item_id, sum(quantity) as total").
		Where("status = ?", inventorydomain.RentalStatusRented).
		Group("item_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[string]int, len(rows))
	for _, row := range rows {
		result[row.ItemID] = row.Total
	}
	return result, nil
}
