package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/catalog"
	orderdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/order"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(orderdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetOrCreateCart(ctx context.Context, buyerID string) (*orderdomain.Cart, error) {
	var cart orderdomain.Cart
	err := r.db.WithContext(ctx).Where("buyer_id = ?", buyerID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = orderdomain.Cart{ID: uuid.NewString(), BuyerID: buyerID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "buyer_id"}}, DoNothing: true}).
		Create(&cart).Error; err != nil {
		return nil, err
	}
	// a concurrent insert may have won the conflict; read back by buyer
	if err := r.db.WithContext(ctx).Where("buyer_id = ?", buyerID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *PostgresRepository) GetCartItems(ctx context.Context, cartID string) ([]orderdomain.CartItem, error) {
	var items []orderdomain.CartItem
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("added_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) UpsertCartItem(ctx context.Context, item *orderdomain.CartItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "variation_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
		}).
		Create(item).Error
}

func (r *PostgresRepository) DeleteCartItem(ctx context.Context, cartID, variationID string) error {
	result := r.db.WithContext(ctx).
		Delete(&orderdomain.CartItem{}, "cart_id = ? AND variation_id = ?", cartID, variationID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return orderdomain.ErrCartItemNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteCartItems(ctx context.Context, cartID string, variationIDs []string) error {
	if len(variationIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Delete(&orderdomain.CartItem{}, "cart_id = ? AND variation_id IN ?", cartID, variationIDs).Error
}

// CartLinesForUpdate joins the cart items with their variations and
// owning products, locking the variation rows until the surrounding
// transaction commits.
func (r *PostgresRepository) CartLinesForUpdate(ctx context.Context, cartID string, variationIDs []string) ([]orderdomain.CartLine, error) {
	if len(variationIDs) == 0 {
		return nil, nil
	}

	var lines []orderdomain.CartLine
	if err := r.db.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.variation_id, variations.name as variation_name, products.id as product_id, products.name as product_name, products.vendor_id, variations.unit_price, variations.stock, cart_items.quantity").
		Joins("join variations on variations.id = cart_items.variation_id").
		Joins("join products on products.id = variations.product_id").
		Where("cart_items.cart_id = ? AND cart_items.variation_id IN ?", cartID, variationIDs).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "variations"}}).
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *PostgresRepository) UpdateVariationStock(ctx context.Context, variationID string, stock int, available bool) error {
	return r.db.WithContext(ctx).
		Model(&catalogdomain.Variation{}).
		Where("id = ?", variationID).
		Updates(map[string]interface{}{
			"stock":        stock,
			"is_available": available,
		}).Error
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, o *orderdomain.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id string) (*orderdomain.Order, error) {
	var o orderdomain.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orderdomain.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *PostgresRepository) UpdateOrder(ctx context.Context, o *orderdomain.Order) error {
	return r.db.WithContext(ctx).
		Model(&orderdomain.Order{}).
		Where("id = ?", o.ID).
		Updates(map[string]interface{}{
			"status":     o.Status,
			"updated_at": o.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) ListOrders(ctx context.Context, filter orderdomain.ListFilter) ([]orderdomain.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&orderdomain.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("order_identifier ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var orders []orderdomain.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *PostgresRepository) ListOrdersByBuyer(ctx context.Context, buyerID string) ([]orderdomain.Order, error) {
	var orders []orderdomain.Order
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresRepository) ListAllOrders(ctx context.Context) ([]orderdomain.Order, error) {
	var orders []orderdomain.Order
	if err := r.db.WithContext(ctx).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresRepository) DeleteOrdersByIdentifiers(ctx context.Context, identifiers []string) (int64, error) {
	if len(identifiers) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Delete(&orderdomain.Order{}, "order_identifier IN ?", identifiers)
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) CountOrdersByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string `gorm:"column:status"`
		Total  int64  `gorm:"column:total"`
	}
	if err := r.db.WithContext(ctx).
		Model(&orderdomain.Order{}).
		Select("status, count(*) as total").
		Group("status").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *PostgresRepository) CreateOrderItems(ctx context.Context, items []orderdomain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *PostgresRepository) ListOrderItems(ctx context.Context, orderID string) ([]orderdomain.OrderItem, error) {
	var items []orderdomain.OrderItem
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ListOrderItemsByOrderIDs(ctx context.Context, orderIDs []string) (map[string][]orderdomain.OrderItem, error) {
	result := make(map[string][]orderdomain.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	var items []orderdomain.OrderItem
	if err := r.db.WithContext(ctx).Where("order_id IN ?", orderIDs).Find(&items).Error; err != nil {
		return nil, err
	}

	for _, item := range items {
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	return result, nil
}

func (r *PostgresRepository) CreateStatusHistory(ctx context.Context, h *orderdomain.StatusHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *PostgresRepository) ListStatusHistory(ctx context.Context, orderID string) ([]orderdomain.StatusHistory, error) {
	var history []orderdomain.StatusHistory
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("changed_at asc").
		Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

func (r *PostgresRepository) CreateTransaction(ctx context.Context, t *orderdomain.MarketTransaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *PostgresRepository) GetTransaction(ctx context.Context, id string) (*orderdomain.MarketTransaction, error) {
	var t orderdomain.MarketTransaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orderdomain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) GetTransactionByOrder(ctx context.Context, orderID string) (*orderdomain.MarketTransaction, error) {
	var t orderdomain.MarketTransaction
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orderdomain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) UpdateTransaction(ctx context.Context, t *orderdomain.MarketTransaction) error {
	return r.db.WithContext(ctx).
		Model(&orderdomain.MarketTransaction{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"status":   t.Status,
			"ended_at": t.EndedAt,
		}).Error
}

func (r *PostgresRepository) ListTransactions(ctx context.Context, limit, offset int) ([]orderdomain.MarketTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&orderdomain.MarketTransaction{})

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var transactions []orderdomain.MarketTransaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}
