package association

import (
	"strings"
	"time"
	"unicode"
)

type Association struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string    `gorm:"uniqueIndex;not null" json:"name"`
	Description      string    `json:"description"`
	Barangay         string    `gorm:"size:100" json:"barangay"`
	PresidentID      *string   `gorm:"type:uuid" json:"president_id,omitempty"`
	ContactNumber    string    `gorm:"size:15" json:"contact_number"`
	LastFarmerNumber int       `gorm:"not null;default:0" json:"last_farmer_number"`
	IsActive         bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

const (
	CivilSingle   = "Single"
	CivilMarried  = "Married"
	CivilWidowed  = "Widowed"
	CivilDivorced = "Divorced"
)

// Farmer is keyed by its generated code, not a surrogate id.
type Farmer struct {
	Code           string    `gorm:"primaryKey;size:50;column:code" json:"code"`
	FullName       string    `gorm:"not null" json:"full_name"`
	AssociationID  string    `gorm:"type:uuid;index;not null" json:"association_id"`
	Birthday       time.Time `gorm:"type:date;not null" json:"birthday"`
	Gender         string    `gorm:"size:10;not null" json:"gender"`
	CivilStatus    string    `gorm:"size:10" json:"civil_status,omitempty"`
	Address        string    `gorm:"not null" json:"address"`
	ContactNumber  string    `gorm:"size:15" json:"contact_number"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	DateRegistered time.Time `gorm:"autoCreateTime" json:"date_registered"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Age is derived from the birthday, never stored.
func (f Farmer) Age(now time.Time) int {
	age := now.Year() - f.Birthday.Year()
	if now.Month() < f.Birthday.Month() ||
		(now.Month() == f.Birthday.Month() && now.Day() < f.Birthday.Day()) {
		age--
	}
	return age
}

func IsValidGender(value string) bool {
	switch value {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

func IsValidCivilStatus(value string) bool {
	switch value {
	case CivilSingle, CivilMarried, CivilWidowed, CivilDivorced:
		return true
	}
	return false
}

// CodePrefix derives the farmer-code prefix from the first letters of up
// to three words of the association name: "Bulihan Growers Cooperative"
// yields "BGC".
func CodePrefix(name string) string {
	words := strings.Fields(name)
	if len(words) > 3 {
		words = words[:3]
	}

	var b strings.Builder
	for _, word := range words {
		for _, r := range word {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
	}
	return b.String()
}

type CreateAssociationInput struct {
	Name          string
	Description   string
	Barangay      string
	PresidentID   *string
	ContactNumber string
}

type OptionalString struct {
	Set   bool
	Value string
}

type OptionalBool struct {
	Set   bool
	Value bool
}

type UpdateAssociationInput struct {
	ID            string
	Name          OptionalString
	Description   OptionalString
	Barangay      OptionalString
	PresidentID   OptionalString
	ContactNumber OptionalString
	IsActive      OptionalBool
}

type CreateFarmerInput struct {
	FullName      string
	AssociationID string
	Birthday      time.Time
	Gender        string
	CivilStatus   string
	Address       string
	ContactNumber string
}

type UpdateFarmerInput struct {
	Code          string
	FullName      OptionalString
	Birthday      *time.Time
	Gender        OptionalString
	CivilStatus   OptionalString
	Address       OptionalString
	ContactNumber OptionalString
	IsActive      OptionalBool
}
