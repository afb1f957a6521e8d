package finance

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	financedomain "github.com/Arzion032/binhi-fms-backend/internal/domain/finance"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateTransaction(ctx context.Context, t *financedomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *PostgresRepository) GetTransaction(ctx context.Context, id string) (*financedomain.Transaction, error) {
	var t financedomain.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, financedomain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) UpdateTransaction(ctx context.Context, t *financedomain.Transaction) error {
	return r.db.WithContext(ctx).
		Model(&financedomain.Transaction{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"type":             t.Type,
			"amount":           t.Amount,
			"description":      t.Description,
			"source":           t.Source,
			"transaction_date": t.TransactionDate,
			"updated_at":       t.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) DeleteTransaction(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&financedomain.Transaction{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return financedomain.ErrTransactionNotFound
	}
	return nil
}

func (r *PostgresRepository) ListTransactions(ctx context.Context, filter financedomain.ListFilter) ([]financedomain.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&financedomain.Transaction{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.From != nil {
		query = query.Where("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("transaction_date <= ?", *filter.To)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("transaction_date desc, created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var transactions []financedomain.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

func (r *PostgresRepository) SumByType(ctx context.Context) (map[string]decimal.Decimal, error) {
	var rows []struct {
		Type  string          `gorm:"column:type"`
		Total decimal.Decimal `gorm:"column:total"`
	}
	if err := r.db.WithContext(ctx).
		Model(&financedomain.Transaction{}).
		Select("type, coalesce(sum(amount), 0) as total").
		Group("type").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.Type] = row.Total
	}
	return sums, nil
}
