package account

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrProfileExists    = errors.New("profile already exists")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrEmailTaken       = errors.New("email already exists")
	ErrEmailNotVerified = errors.New("email is not verified")
	ErrEmailVerified    = errors.New("email already verified")
	ErrInvalidCode      = errors.New("invalid verification code")
	ErrInvalidRole      = errors.New("invalid role")
	ErrBadCredentials   = errors.New("invalid credentials")
)
