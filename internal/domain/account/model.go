package account

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleFarmer = "farmer"
	RoleBuyer  = "buyer"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleMember, RoleFarmer, RoleBuyer:
		return true
	}
	return false
}

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	ContactNo    string    `gorm:"size:15;not null" json:"contact_no"`
	Role         string    `gorm:"size:20;not null" json:"role"`
	IsApproved   bool      `gorm:"not null;default:false" json:"is_approved"`
	IsRejected   bool      `gorm:"not null;default:false" json:"is_rejected"`
	IsActive     bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Profile struct {
	UserID         string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	FullName       string    `gorm:"not null" json:"full_name"`
	Address        string    `gorm:"not null" json:"address"`
	ProfilePicture string    `json:"profile_picture"`
	OtherDetails   []byte    `gorm:"type:jsonb" json:"other_details,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type VerifiedEmail struct {
	Email      string    `gorm:"primaryKey" json:"email"`
	VerifiedAt time.Time `gorm:"autoCreateTime" json:"verified_at"`
}

type UserWithProfile struct {
	User
	Profile *Profile `json:"profile,omitempty"`
}

type CreateUserInput struct {
	Username  string
	Email     string
	Password  string
	ContactNo string
	Role      string
}

// OptionalString distinguishes "not sent" from "sent empty" in PATCH
// payloads.
type OptionalString struct {
	Set   bool
	Value string
}

type UpdateUserInput struct {
	UserID    string
	Username  OptionalString
	Email     OptionalString
	ContactNo OptionalString
	Role      OptionalString
	Password  OptionalString
}

type UpsertProfileInput struct {
	UserID         string
	FullName       string
	Address        string
	ProfilePicture string
	OtherDetails   []byte
}
