package association

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	associationdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/association"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(associationdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListAssociations(ctx context.Context) ([]associationdomain.Association, error) {
	var associations []associationdomain.Association
	if err := r.db.WithContext(ctx).Order("name asc").Find(&associations).Error; err != nil {
		return nil, err
	}
	return associations, nil
}

func (r *PostgresRepository) GetAssociationByID(ctx context.Context, id string) (*associationdomain.Association, error) {
	var association associationdomain.Association
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&association).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, associationdomain.ErrAssociationNotFound
		}
		return nil, err
	}
	return &association, nil
}

func (r *PostgresRepository) GetAssociationForUpdate(ctx context.Context, id string) (*associationdomain.Association, error) {
	var association associationdomain.Association
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&association).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, associationdomain.ErrAssociationNotFound
		}
		return nil, err
	}
	return &association, nil
}

func (r *PostgresRepository) CountAssociationsByName(ctx context.Context, name, excludeID string) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&associationdomain.Association{}).
		Where("lower(name) = lower(?)", name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) CreateAssociation(ctx context.Context, association *associationdomain.Association) error {
	return r.db.WithContext(ctx).Create(association).Error
}

func (r *PostgresRepository) UpdateAssociation(ctx context.Context, association *associationdomain.Association) error {
	return r.db.WithContext(ctx).
		Model(&associationdomain.Association{}).
		Where("id = ?", association.ID).
		Updates(map[string]interface{}{
			"name":               association.Name,
			"description":        association.Description,
			"barangay":           association.Barangay,
			"president_id":       association.PresidentID,
			"contact_number":     association.ContactNumber,
			"last_farmer_number": association.LastFarmerNumber,
			"is_active":          association.IsActive,
			"updated_at":         association.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) DeleteAssociation(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&associationdomain.Association{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListFarmers(ctx context.Context, associationID string) ([]associationdomain.Farmer, error) {
	query := r.db.WithContext(ctx).Model(&associationdomain.Farmer{})
	if associationID != "" {
		query = query.Where("association_id = ?", associationID)
	}

	var farmers []associationdomain.Farmer
	if err := query.Order("code asc").Find(&farmers).Error; err != nil {
		return nil, err
	}
	return farmers, nil
}

func (r *PostgresRepository) GetFarmerByCode(ctx context.Context, code string) (*associationdomain.Farmer, error) {
	var farmer associationdomain.Farmer
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&farmer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, associationdomain.ErrFarmerNotFound
		}
		return nil, err
	}
	return &farmer, nil
}

func (r *PostgresRepository) CreateFarmer(ctx context.Context, farmer *associationdomain.Farmer) error {
	return r.db.WithContext(ctx).Create(farmer).Error
}

func (r *PostgresRepository) UpdateFarmer(ctx context.Context, farmer *associationdomain.Farmer) error {
	return r.db.WithContext(ctx).
		Model(&associationdomain.Farmer{}).
		Where("code = ?", farmer.Code).
		Updates(map[string]interface{}{
			"full_name":      farmer.FullName,
			"birthday":       farmer.Birthday,
			"gender":         farmer.Gender,
			"civil_status":   farmer.CivilStatus,
			"address":        farmer.Address,
			"contact_number": farmer.ContactNumber,
			"is_active":      farmer.IsActive,
			"updated_at":     farmer.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) DeleteFarmer(ctx context.Context, code string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&associationdomain.Farmer{}, "code = ?", code)
	return result.RowsAffected > 0, result.Error
}
