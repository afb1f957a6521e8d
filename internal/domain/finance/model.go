package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

func IsValidType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a federation ledger entry recorded by an admin.
type Transaction struct {
	ID              string          `gorm:"type:uuid;primaryKey" json:"id"`
	AdminID         string          `gorm:"type:uuid;index;not null" json:"admin_id"`
	Type            string          `gorm:"size:10;not null" json:"type"`
	Amount          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Description     string          `json:"description"`
	Source          string          `gorm:"not null" json:"source"`
	TransactionDate time.Time       `gorm:"not null" json:"transaction_date"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Transaction) TableName() string { return "finance_transactions" }

type CreateTransactionInput struct {
	AdminID         string
	Type            string
	Amount          decimal.Decimal
	Description     string
	Source          string
	TransactionDate time.Time
}

type UpdateTransactionInput struct {
	Type            string
	Amount          *decimal.Decimal
	Description     *string
	Source          *string
	TransactionDate *time.Time
}

type ListFilter struct {
	Type   string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// Balance is the federation position: income minus expenses over all
// ledger entries.
type Balance struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Balance       decimal.Decimal `json:"balance"`
}
