package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPublished       = "published"
	StatusOutOfStock      = "out_of_stock"
	StatusHidden          = "hidden"
	StatusPendingApproval = "pending_approval"
	StatusRejected        = "rejected"
)

func IsValidStatus(status string) bool {
	switch status {
	case StatusPublished, StatusOutOfStock, StatusHidden, StatusPendingApproval, StatusRejected:
		return true
	}
	return false
}

type Category struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Product struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID    string    `gorm:"type:uuid;index;not null" json:"vendor_id"`
	CategoryID  string    `gorm:"type:uuid;index;not null" json:"category_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Status      string    `gorm:"size:20;not null" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Variation struct {
	ID              string          `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID       string          `gorm:"type:uuid;index:idx_variation_product_name,unique;not null" json:"product_id"`
	Name            string          `gorm:"index:idx_variation_product_name,unique;not null" json:"name"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Stock           int             `gorm:"not null;default:0" json:"stock"`
	UnitMeasurement string          `gorm:"size:20;not null;default:piece" json:"unit_measurement"`
	IsAvailable     bool            `gorm:"not null;default:true" json:"is_available"`
	IsDefault       bool            `gorm:"not null;default:false" json:"is_default"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type ProductImage struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID    string    `gorm:"type:uuid;index;not null" json:"product_id"`
	ImageURL     string    `gorm:"not null" json:"image_url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

type ProductWithDetails struct {
	Product
	Variations []Variation    `json:"variations"`
	Images     []ProductImage `json:"images"`
}

type ListFilter struct {
	VendorID string
	Status   string
	Search   string
	Limit    int
	Offset   int
}

type VariationInput struct {
	Name            string
	UnitPrice       decimal.Decimal
	Stock           int
	UnitMeasurement string
	IsAvailable     bool
	IsDefault       bool
}

type CreateProductInput struct {
	VendorID    string
	CategoryID  string
	Name        string
	Description string
	Variations  []VariationInput
}

type OptionalString struct {
	Set   bool
	Value string
}

type UpdateProductInput struct {
	ProductID   string
	ActorID     string
	ActorRole   string
	CategoryID  OptionalString
	Name        OptionalString
	Description OptionalString
	Status      OptionalString
	Variations  []VariationInput
}

type CreateCategoryInput struct {
	Name        string
	Description string
}

type UpdateCategoryInput struct {
	CategoryID  string
	Name        OptionalString
	Description OptionalString
}
