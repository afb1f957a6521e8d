package association

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListAssociations(ctx context.Context) ([]Association, error) {
	return s.repo.ListAssociations(ctx)
}

func (s *Service) GetAssociation(ctx context.Context, id string) (*Association, error) {
	return s.repo.GetAssociationByID(ctx, id)
}

func (s *Service) CreateAssociation(ctx context.Context, input CreateAssociationInput) (*Association, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	count, err := s.repo.CountAssociationsByName(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNameTaken
	}

	association := &Association{
		ID:            uuid.NewString(),
		Name:          name,
		Description:   strings.TrimSpace(input.Description),
		Barangay:      strings.TrimSpace(input.Barangay),
		PresidentID:   input.PresidentID,
		ContactNumber: strings.TrimSpace(input.ContactNumber),
		IsActive:      true,
	}

	if err := s.repo.CreateAssociation(ctx, association); err != nil {
		return nil, err
	}
	return association, nil
}

func (s *Service) UpdateAssociation(ctx context.Context, input UpdateAssociationInput) (*Association, error) {
	association, err := s.repo.GetAssociationByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name.Set {
		name := strings.TrimSpace(input.Name.Value)
		if name == "" {
			return nil, fmt.Errorf("name is required")
		}
		count, err := s.repo.CountAssociationsByName(ctx, name, association.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrNameTaken
		}
		association.Name = name
	}
	if input.Description.Set {
		association.Description = strings.TrimSpace(input.Description.Value)
	}
	if input.Barangay.Set {
		association.Barangay = strings.TrimSpace(input.Barangay.Value)
	}
	if input.PresidentID.Set {
		if value := strings.TrimSpace(input.PresidentID.Value); value == "" {
			association.PresidentID = nil
		} else {
			association.PresidentID = &value
		}
	}
	if input.ContactNumber.Set {
		association.ContactNumber = strings.TrimSpace(input.ContactNumber.Value)
	}
	if input.IsActive.Set {
		association.IsActive = input.IsActive.Value
	}
	association.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateAssociation(ctx, association); err != nil {
		return nil, err
	}
	return association, nil
}

func (s *Service) DeleteAssociation(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteAssociation(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrAssociationNotFound
	}
	return nil
}

func (s *Service) ListFarmers(ctx context.Context, associationID string) ([]Farmer, error) {
	return s.repo.ListFarmers(ctx, associationID)
}

func (s *Service) GetFarmer(ctx context.Context, code string) (*Farmer, error) {
	return s.repo.GetFarmerByCode(ctx, code)
}

// CreateFarmer generates the farmer code from the association's persisted
// counter. The counter row is locked so concurrent registrations cannot
// hand out the same number, and deleted farmers never free their numbers.
func (s *Service) CreateFarmer(ctx context.Context, input CreateFarmerInput) (*Farmer, error) {
	if err := validateFarmerInput(input); err != nil {
		return nil, err
	}

	var farmer Farmer
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		association, err := tx.GetAssociationForUpdate(ctx, input.AssociationID)
		if err != nil {
			return err
		}

		association.LastFarmerNumber++
		if err := tx.UpdateAssociation(ctx, association); err != nil {
			return err
		}

		farmer = Farmer{
			Code:          fmt.Sprintf("%s-%03d", CodePrefix(association.Name), association.LastFarmerNumber),
			FullName:      strings.TrimSpace(input.FullName),
			AssociationID: association.ID,
			Birthday:      input.Birthday,
			Gender:        input.Gender,
			CivilStatus:   input.CivilStatus,
			Address:       strings.TrimSpace(input.Address),
			ContactNumber: strings.TrimSpace(input.ContactNumber),
			IsActive:      true,
		}
		return tx.CreateFarmer(ctx, &farmer)
	})
	if err != nil {
		return nil, err
	}
	return &farmer, nil
}

func (s *Service) UpdateFarmer(ctx context.Context, input UpdateFarmerInput) (*Farmer, error) {
	farmer, err := s.repo.GetFarmerByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}

	if input.FullName.Set {
		fullName := strings.TrimSpace(input.FullName.Value)
		if fullName == "" {
			return nil, fmt.Errorf("full_name is required")
		}
		farmer.FullName = fullName
	}
	if input.Birthday != nil {
		farmer.Birthday = *input.Birthday
	}
	if input.Gender.Set {
		if !IsValidGender(input.Gender.Value) {
			return nil, fmt.Errorf("invalid gender")
		}
		farmer.Gender = input.Gender.Value
	}
	if input.CivilStatus.Set {
		if input.CivilStatus.Value != "" && !IsValidCivilStatus(input.CivilStatus.Value) {
			return nil, fmt.Errorf("invalid civil status")
		}
		farmer.CivilStatus = input.CivilStatus.Value
	}
	if input.Address.Set {
		farmer.Address = strings.TrimSpace(input.Address.Value)
	}
	if input.ContactNumber.Set {
		farmer.ContactNumber = strings.TrimSpace(input.ContactNumber.Value)
	}
	if input.IsActive.Set {
		farmer.IsActive = input.IsActive.Value
	}
	farmer.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateFarmer(ctx, farmer); err != nil {
		return nil, err
	}
	return farmer, nil
}

func (s *Service) DeleteFarmer(ctx context.Context, code string) error {
	deleted, err := s.repo.DeleteFarmer(ctx, code)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrFarmerNotFound
	}
	return nil
}

func validateFarmerInput(input CreateFarmerInput) error {
	if strings.TrimSpace(input.FullName) == "" {
		return fmt.Errorf("full_name is required")
	}
	if _, err := uuid.Parse(input.AssociationID); err != nil {
		return fmt.Errorf("invalid association id")
	}
	if input.Birthday.IsZero() || input.Birthday.After(time.Now()) {
		return fmt.Errorf("invalid birthday")
	}
	if !IsValidGender(input.Gender) {
		return fmt.Errorf("invalid gender")
	}
	if input.CivilStatus != "" && !IsValidCivilStatus(input.CivilStatus) {
		return fmt.Errorf("invalid civil status")
	}
	if strings.TrimSpace(input.Address) == "" {
		return fmt.Errorf("address is required")
	}
	return nil
}
