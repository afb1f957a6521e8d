package account

import (
	"context"
	"time"
)

type Repository interface {
	ListUsers(ctx context.Context, filter ListFilter) ([]User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CountUsersByUsername(ctx context.Context, username, excludeID string) (int64, error)
	CountUsersByEmail(ctx context.Context, email, excludeID string) (int64, error)
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, userID string) (bool, error)

	GetProfile(ctx context.Context, userID string) (*Profile, error)
	CreateProfile(ctx context.Context, profile *Profile) error
	UpdateProfile(ctx context.Context, profile *Profile) error

	IsEmailVerified(ctx context.Context, email string) (bool, error)
	MarkEmailVerified(ctx context.Context, email string) error
}

// ListFilter selects users by approval state: "approved", "pending" or
// "rejected".
type ListFilter struct {
	State string
}

// VerificationStore holds pending email-verification codes until they
// expire or are consumed.
type VerificationStore interface {
	Put(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, bool, error)
	Delete(ctx context.Context, email string) error
}

// Mailer delivers verification mail. The default implementation only logs
// the code; real delivery is a deployment concern.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
