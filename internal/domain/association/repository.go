package association

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListAssociations(ctx context.Context) ([]Association, error)
	GetAssociationByID(ctx context.Context, id string) (*Association, error)
	// GetAssociationForUpdate locks the association row for the duration
	// of the surrounding transaction; used by farmer-code generation.
	GetAssociationForUpdate(ctx context.Context, id string) (*Association, error)
	CountAssociationsByName(ctx context.Context, name, excludeID string) (int64, error)
	CreateAssociation(ctx context.Context, association *Association) error
	UpdateAssociation(ctx context.Context, association *Association) error
	DeleteAssociation(ctx context.Context, id string) (bool, error)

	ListFarmers(ctx context.Context, associationID string) ([]Farmer, error)
	GetFarmerByCode(ctx context.Context, code string) (*Farmer, error)
	CreateFarmer(ctx context.Context, farmer *Farmer) error
	UpdateFarmer(ctx context.Context, farmer *Farmer) error
	DeleteFarmer(ctx context.Context, code string) (bool, error)
}
