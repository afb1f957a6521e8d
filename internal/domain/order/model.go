package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
	StatusReturned   = "returned"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentRefunded  = "refunded"
	PaymentFailed    = "failed"
)

func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

func IsValidPaymentStatus(status string) bool {
	switch status {
	case PaymentPending, PaymentCompleted, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}

// IsTerminalPaymentStatus reports whether the payment status stamps the
// transaction's ended_at.
func IsTerminalPaymentStatus(status string) bool {
	switch status {
	case PaymentCompleted, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}

type Cart struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	BuyerID   string    `gorm:"type:uuid;uniqueIndex;not null" json:"buyer_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type CartItem struct {
	CartID      string    `gorm:"type:uuid;primaryKey" json:"cart_id"`
	VariationID string    `gorm:"type:uuid;primaryKey" json:"variation_id"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	AddedAt     time.Time `gorm:"autoCreateTime" json:"added_at"`
}

type Order struct {
	ID              string          `gorm:"type:uuid;primaryKey" json:"id"`
	OrderIdentifier string          `gorm:"uniqueIndex;size:20;not null" json:"order_identifier"`
	BuyerID         string          `gorm:"type:uuid;index;not null" json:"buyer_id"`
	Status          string          `gorm:"size:20;not null" json:"status"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	ShippingAddress string          `gorm:"not null" json:"shipping_address"`
	PaymentMethod   string          `gorm:"size:50;not null" json:"payment_method"`
	DeliveryMethod  string          `gorm:"size:50" json:"delivery_method"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type OrderItem struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     string          `gorm:"type:uuid;index;not null" json:"order_id"`
	VariationID string          `gorm:"type:uuid;not null" json:"variation_id"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
}

type StatusHistory struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   string    `gorm:"type:uuid;index;not null" json:"order_id"`
	Status    string    `gorm:"size:20;not null" json:"status"`
	ChangedAt time.Time `gorm:"autoCreateTime" json:"changed_at"`
}

func (StatusHistory) TableName() string { return "order_status_history" }

// MarketTransaction is the payment record paired one-to-one with an order.
type MarketTransaction struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID       string          `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	BuyerID       string          `gorm:"type:uuid;not null" json:"buyer_id"`
	SellerID      string          `gorm:"type:uuid;not null" json:"seller_id"`
	PaymentMethod string          `gorm:"size:50;not null" json:"payment_method"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	Status        string          `gorm:"size:20;not null" json:"status"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	EndedAt       *time.Time      `json:"ended_at,omitempty"`
}

// CartLine is a cart item joined with its variation and owning vendor,
// as read (and locked) during checkout.
type CartLine struct {
	VariationID   string
	VariationName string
	ProductID     string
	ProductName   string
	VendorID      string
	UnitPrice     decimal.Decimal
	Stock         int
	Quantity      int
}

type CheckoutInput struct {
	BuyerID         string
	VariationIDs    []string
	ShippingAddress string
	PaymentMethod   string
	DeliveryMethod  string
}

type CheckoutOrder struct {
	OrderID         string          `json:"order_id"`
	OrderIdentifier string          `json:"order_identifier"`
	VendorID        string          `json:"vendor_id"`
	OrderTotal      decimal.Decimal `json:"order_total"`
}

type OrderWithDetails struct {
	Order
	Items       []OrderItem        `json:"items"`
	History     []StatusHistory    `json:"status_history"`
	Transaction *MarketTransaction `json:"transaction,omitempty"`
}

type ListFilter struct {
	Search string
	Status string
	Limit  int
	Offset int
}

type StatusPatchInput struct {
	OrderID       string
	Status        string
	PaymentStatus string
}
