package catalog

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListProducts(ctx context.Context, filter ListFilter) ([]Product, int64, error)
	GetProductByID(ctx context.Context, productID string) (*Product, error)
	CreateProduct(ctx context.Context, product *Product) error
	UpdateProduct(ctx context.Context, product *Product) error
	DeleteProducts(ctx context.Context, productIDs []string) (int64, error)

	ListVariationsByProductIDs(ctx context.Context, productIDs []string) (map[string][]Variation, error)
	ReplaceVariations(ctx context.Context, productID string, variations []Variation) error

	ListImagesByProductIDs(ctx context.Context, productIDs []string) (map[string][]ProductImage, error)
	CreateImage(ctx context.Context, image *ProductImage) error
	GetImageByID(ctx context.Context, imageID string) (*ProductImage, error)
	DeleteImage(ctx context.Context, imageID string) (bool, error)

	ListCategories(ctx context.Context) ([]Category, error)
	GetCategoryByID(ctx context.Context, categoryID string) (*Category, error)
	CountCategoriesByName(ctx context.Context, name, excludeID string) (int64, error)
	CreateCategory(ctx context.Context, category *Category) error
	UpdateCategory(ctx context.Context, category *Category) error
	DeleteCategory(ctx context.Context, categoryID string) (bool, error)
}
