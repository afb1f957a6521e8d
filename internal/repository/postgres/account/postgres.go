package account

import (
	"context"
	"errors"

	"gorm.io/gorm"

	accountdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/account"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListUsers(ctx context.Context, filter accountdomain.ListFilter) ([]accountdomain.User, error) {
	query := r.db.WithContext(ctx).Model(&accountdomain.User{})
	switch filter.State {
	case "approved":
		query = query.Where("is_approved = true")
	case "pending":
		query = query.Where("is_approved = false AND is_rejected = false")
	case "rejected":
		query = query.Where("is_rejected = true")
	}

	var users []accountdomain.User
	if err := query.Order("created_at asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, userID string) (*accountdomain.User, error) {
	var user accountdomain.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accountdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*accountdomain.User, error) {
	var user accountdomain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accountdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) CountUsersByUsername(ctx context.Context, username, excludeID string) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&accountdomain.User{}).
		Where("lower(username) = lower(?)", username)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) CountUsersByEmail(ctx context.Context, email, excludeID string) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&accountdomain.User{}).
		Where("lower(email) = lower(?)", email)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *accountdomain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, user *accountdomain.User) error {
	return r.db.WithContext(ctx).
		Model(&accountdomain.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"username":      user.Username,
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"contact_no":    user.ContactNo,
			"role":          user.Role,
			"is_approved":   user.IsApproved,
			"is_rejected":   user.IsRejected,
			"is_active":     user.IsActive,
			"updated_at":    user.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) DeleteUser(ctx context.Context, userID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&accountdomain.User{}, "id = ?", userID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID string) (*accountdomain.Profile, error) {
	var profile accountdomain.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accountdomain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *PostgresRepository) CreateProfile(ctx context.Context, profile *accountdomain.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, profile *accountdomain.Profile) error {
	return r.db.WithContext(ctx).
		Model(&accountdomain.Profile{}).
		Where("user_id = ?", profile.UserID).
		Updates(map[string]interface{}{
			"full_name":       profile.FullName,
			"address":         profile.Address,
			"profile_picture": profile.ProfilePicture,
			"other_details":   profile.OtherDetails,
			"updated_at":      profile.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) IsEmailVerified(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&accountdomain.VerifiedEmail{}).
		Where("lower(email) = lower(?)", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) MarkEmailVerified(ctx context.Context, email string) error {
	verified := accountdomain.VerifiedEmail{Email: email}
	return r.db.WithContext(ctx).
		Where("lower(email) = lower(?)", email).
		FirstOrCreate(&verified).Error
}
