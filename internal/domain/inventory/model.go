package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RentalStatusRented   = "rented"
	RentalStatusReturned = "returned"
)

type Item struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	AdminID     string          `gorm:"type:uuid;index;not null" json:"admin_id"`
	ItemName    string          `gorm:"not null" json:"item_name"`
	RentalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"rental_price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Available   int             `gorm:"not null" json:"available"`
	Rented      int             `gorm:"not null;default:0" json:"rented"`
	Unit        string          `gorm:"size:50" json:"unit"`
	Category    string          `gorm:"size:50" json:"category"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// CheckCounters enforces 0 <= available, 0 <= rented and
// available + rented <= quantity.
func (i Item) CheckCounters() error {
	if i.Quantity < 0 || i.Available < 0 || i.Rented < 0 {
		return ErrNegativeQuantity
	}
	if i.Available+i.Rented > i.Quantity {
		return ErrCountersExceedQuantity
	}
	return nil
}

type Rental struct {
	ID            string     `gorm:"type:uuid;primaryKey" json:"id"`
	AdminID       string     `gorm:"type:uuid;index;not null" json:"admin_id"`
	ItemID        string     `gorm:"type:uuid;index;not null" json:"item_id"`
	RenterName    string     `gorm:"not null" json:"renter_name"`
	ContactNumber string     `gorm:"size:15" json:"contact_number"`
	Quantity      int        `gorm:"not null" json:"quantity"`
	Notes         string     `json:"notes,omitempty"`
	RentalDate    time.Time  `gorm:"autoCreateTime" json:"rental_date"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
	Status        string     `gorm:"size:10;not null;default:rented" json:"status"`
}

type CreateItemInput struct {
	AdminID     string
	ItemName    string
	RentalPrice decimal.Decimal
	Quantity    int
	Available   int
	Rented      int
	Unit        string
	Category    string
	Description string
}

type OptionalInt struct {
	Set   bool
	Value int
}

type OptionalString struct {
	Set   bool
	Value string
}

type UpdateItemInput struct {
	ItemID      string
	ItemName    OptionalString
	RentalPrice *decimal.Decimal
	Quantity    OptionalInt
	Available   OptionalInt
	Rented      OptionalInt
	Unit        OptionalString
	Category    OptionalString
	Description OptionalString
}

type RentInput struct {
	AdminID       string
	ItemID        string
	RenterName    string
	ContactNumber string
	Quantity      int
	Notes         string
}

// DriftReport describes one item whose running counters disagreed with
// the rental log.
type DriftReport struct {
	ItemID        string `json:"item_id"`
	ItemName      string `json:"item_name"`
	StoredRented  int    `json:"stored_rented"`
	DerivedRented int    `json:"derived_rented"`
}
