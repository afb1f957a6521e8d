package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Arzion032/binhi-fms-backend/internal/auth"
	"github.com/google/uuid"
)

const verificationTTL = 24 * time.Hour

type Service struct {
	repo          Repository
	verifications VerificationStore
	mailer        Mailer
}

func NewService(repo Repository, verifications VerificationStore, mailer Mailer) *Service {
	return &Service{repo: repo, verifications: verifications, mailer: mailer}
}

func (s *Service) ListMembers(ctx context.Context, state string) ([]User, error) {
	return s.repo.ListUsers(ctx, ListFilter{State: state})
}

func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// CreateMember is the admin path: the account is approved and active
// immediately, no email verification required.
func (s *Service) CreateMember(ctx context.Context, input CreateUserInput) (*User, error) {
	user, err := s.buildUser(ctx, input)
	if err != nil {
		return nil, err
	}
	user.IsApproved = true
	user.IsActive = true

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Signup is the self-service path: the email must have been verified first
// and the account starts pending approval.
func (s *Service) Signup(ctx context.Context, input CreateUserInput) (*User, error) {
	verified, err := s.repo.IsEmailVerified(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, ErrEmailNotVerified
	}

	user, err := s.buildUser(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) buildUser(ctx context.Context, input CreateUserInput) (*User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email format")
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	if !IsValidRole(input.Role) {
		return nil, ErrInvalidRole
	}

	if count, err := s.repo.CountUsersByUsername(ctx, username, ""); err != nil {
		return nil, err
	} else if count > 0 {
		return nil, ErrUsernameTaken
	}
	if count, err := s.repo.CountUsersByEmail(ctx, email, ""); err != nil {
		return nil, err
	} else if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		ContactNo:    strings.TrimSpace(input.ContactNo),
		Role:         input.Role,
	}, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrBadCredentials
	}
	return user, nil
}

func (s *Service) UpdateMember(ctx context.Context, input UpdateUserInput) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Username.Set {
		username := strings.TrimSpace(input.Username.Value)
		if username == "" {
			return nil, fmt.Errorf("username is required")
		}
		if count, err := s.repo.CountUsersByUsername(ctx, username, user.ID); err != nil {
			return nil, err
		} else if count > 0 {
			return nil, ErrUsernameTaken
		}
		user.Username = username
	}
	if input.Email.Set {
		email := strings.ToLower(strings.TrimSpace(input.Email.Value))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("invalid email format")
		}
		if count, err := s.repo.CountUsersByEmail(ctx, email, user.ID); err != nil {
			return nil, err
		} else if count > 0 {
			return nil, ErrEmailTaken
		}
		user.Email = email
	}
	if input.ContactNo.Set {
		user.ContactNo = strings.TrimSpace(input.ContactNo.Value)
	}
	if input.Role.Set {
		if !IsValidRole(input.Role.Value) {
			return nil, ErrInvalidRole
		}
		user.Role = input.Role.Value
	}
	if input.Password.Set {
		if len(input.Password.Value) < 8 {
			return nil, fmt.Errorf("password must be at least 8 characters")
		}
		hash, err := auth.HashPassword(input.Password.Value)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) DeleteMember(ctx context.Context, userID string) error {
	deleted, err := s.repo.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}

func (s *Service) ApproveMember(ctx context.Context, userID string) (*User, error) {
	return s.setApproval(ctx, userID, true)
}

func (s *Service) RejectMember(ctx context.Context, userID string) (*User, error) {
	return s.setApproval(ctx, userID, false)
}

func (s *Service) setApproval(ctx context.Context, userID string, approved bool) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsApproved = approved
	user.IsActive = approved
	user.IsRejected = !approved
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *Service) GetUserWithProfile(ctx context.Context, userID string) (*UserWithProfile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &UserWithProfile{User: *user}
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrProfileNotFound) {
			return nil, err
		}
	} else {
		result.Profile = profile
	}
	return result, nil
}

func (s *Service) CreateProfile(ctx context.Context, input UpsertProfileInput) (*Profile, error) {
	if _, err := s.repo.GetUserByID(ctx, input.UserID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetProfile(ctx, input.UserID); err == nil {
		return nil, ErrProfileExists
	} else if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	profile, err := buildProfile(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Service) UpdateProfile(ctx context.Context, input UpsertProfileInput) (*Profile, error) {
	profile, err := s.repo.GetProfile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.FullName) != "" {
		profile.FullName = strings.TrimSpace(input.FullName)
	}
	if strings.TrimSpace(input.Address) != "" {
		profile.Address = strings.TrimSpace(input.Address)
	}
	if input.ProfilePicture != "" {
		profile.ProfilePicture = input.ProfilePicture
	}
	if input.OtherDetails != nil {
		profile.OtherDetails = input.OtherDetails
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func buildProfile(input UpsertProfileInput) (*Profile, error) {
	fullName := strings.TrimSpace(input.FullName)
	address := strings.TrimSpace(input.Address)
	if fullName == "" {
		return nil, fmt.Errorf("full_name is required")
	}
	if address == "" {
		return nil, fmt.Errorf("address is required")
	}

	return &Profile{
		UserID:         input.UserID,
		FullName:       fullName,
		Address:        address,
		ProfilePicture: input.ProfilePicture,
		OtherDetails:   input.OtherDetails,
	}, nil
}

// RequestVerification stores a fresh verification code for the email and
// hands it to the mailer.
func (s *Service) RequestVerification(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email format")
	}

	verified, err := s.repo.IsEmailVerified(ctx, email)
	if err != nil {
		return err
	}
	if verified {
		return ErrEmailVerified
	}

	code := uuid.NewString()
	if err := s.verifications.Put(ctx, email, code, verificationTTL); err != nil {
		return err
	}

	body := fmt.Sprintf("Your email verification code is %s", code)
	return s.mailer.Send(ctx, email, "Verify your email", body)
}

func (s *Service) VerifyEmail(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || code == "" {
		return ErrInvalidCode
	}

	stored, ok, err := s.verifications.Get(ctx, email)
	if err != nil {
		return err
	}
	if !ok || stored != code {
		return ErrInvalidCode
	}

	if err := s.repo.MarkEmailVerified(ctx, email); err != nil {
		return err
	}
	return s.verifications.Delete(ctx, email)
}
