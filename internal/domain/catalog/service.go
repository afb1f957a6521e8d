package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Arzion032/binhi-fms-backend/internal/domain/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo     Repository
	cache    CategoriesCache
	cacheTTL time.Duration
}

func NewService(repo Repository, cache CategoriesCache, cacheTTL time.Duration) *Service {
	if cache == nil {
		cache = NoopCategoriesCache()
	}
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL}
}

func (s *Service) ListProducts(ctx context.Context, filter ListFilter) ([]ProductWithDetails, int64, error) {
	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if len(products) == 0 {
		return []ProductWithDetails{}, total, nil
	}

	productIDs := make([]string, 0, len(products))
	for _, product := range products {
		productIDs = append(productIDs, product.ID)
	}

	variations, err := s.repo.ListVariationsByProductIDs(ctx, productIDs)
	if err != nil {
		return nil, 0, err
	}
	images, err := s.repo.ListImagesByProductIDs(ctx, productIDs)
	if err != nil {
		return nil, 0, err
	}

	items := make([]ProductWithDetails, 0, len(products))
	for _, product := range products {
		items = append(items, ProductWithDetails{
			Product:    product,
			Variations: orEmptyVariations(variations[product.ID]),
			Images:     orEmptyImages(images[product.ID]),
		})
	}
	return items, total, nil
}

func (s *Service) GetProduct(ctx context.Context, productID string) (*ProductWithDetails, error) {
	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	variations, err := s.repo.ListVariationsByProductIDs(ctx, []string{product.ID})
	if err != nil {
		return nil, err
	}
	images, err := s.repo.ListImagesByProductIDs(ctx, []string{product.ID})
	if err != nil {
		return nil, err
	}

	return &ProductWithDetails{
		Product:    *product,
		Variations: orEmptyVariations(variations[product.ID]),
		Images:     orEmptyImages(images[product.ID]),
	}, nil
}

// CreateProduct registers a vendor product. Vendor submissions start in
// pending_approval; admin-created products are published immediately.
func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput, actorRole string) (*ProductWithDetails, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if _, err := s.repo.GetCategoryByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	variations, err := buildVariations(input.Variations)
	if err != nil {
		return nil, err
	}

	status := StatusPendingApproval
	if actorRole == account.RoleAdmin {
		status = StatusPublished
	}

	product := Product{
		ID:          uuid.NewString(),
		VendorID:    input.VendorID,
		CategoryID:  input.CategoryID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateProduct(ctx, &product); err != nil {
			return err
		}
		return tx.ReplaceVariations(ctx, product.ID, withProductID(product.ID, variations))
	})
	if err != nil {
		return nil, err
	}

	return &ProductWithDetails{
		Product:    product,
		Variations: withProductID(product.ID, variations),
		Images:     []ProductImage{},
	}, nil
}

func (s *Service) UpdateProduct(ctx context.Context, input UpdateProductInput) (*ProductWithDetails, error) {
	product, err := s.repo.GetProductByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrAdmin(product, input.ActorID, input.ActorRole); err != nil {
		return nil, err
	}

	if input.CategoryID.Set {
		if _, err := s.repo.GetCategoryByID(ctx, input.CategoryID.Value); err != nil {
			return nil, err
		}
		product.CategoryID = input.CategoryID.Value
	}
	if input.Name.Set {
		name := strings.TrimSpace(input.Name.Value)
		if name == "" {
			return nil, fmt.Errorf("name is required")
		}
		product.Name = name
	}
	if input.Description.Set {
		product.Description = strings.TrimSpace(input.Description.Value)
	}
	if input.Status.Set {
		if !IsValidStatus(input.Status.Value) {
			return nil, ErrInvalidProductStatus
		}
		product.Status = input.Status.Value
	}
	product.UpdatedAt = time.Now().UTC()

	var variations []Variation
	if input.Variations != nil {
		variations, err = buildVariations(input.Variations)
		if err != nil {
			return nil, err
		}
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.UpdateProduct(ctx, product); err != nil {
			return err
		}
		if variations != nil {
			return tx.ReplaceVariations(ctx, product.ID, withProductID(product.ID, variations))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduct(ctx, product.ID)
}

func (s *Service) DeleteProduct(ctx context.Context, productID, actorID, actorRole string) error {
	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return err
	}
	if err := requireOwnerOrAdmin(product, actorID, actorRole); err != nil {
		return err
	}

	_, err = s.repo.DeleteProducts(ctx, []string{productID})
	return err
}

// BatchDeleteProducts removes the given products; admin only (enforced at
// the transport layer). Returns how many rows went away.
func (s *Service) BatchDeleteProducts(ctx context.Context, productIDs []string) (int64, error) {
	if len(productIDs) == 0 {
		return 0, fmt.Errorf("no product ids provided")
	}
	return s.repo.DeleteProducts(ctx, productIDs)
}

func (s *Service) AcceptProduct(ctx context.Context, productID string) (*Product, error) {
	return s.moderateProduct(ctx, productID, StatusPublished)
}

func (s *Service) RejectProduct(ctx context.Context, productID string) (*Product, error) {
	return s.moderateProduct(ctx, productID, StatusRejected)
}

func (s *Service) moderateProduct(ctx context.Context, productID, status string) (*Product, error) {
	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.Status = status
	product.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) AddImage(ctx context.Context, productID, imageURL, thumbnailURL string) (*ProductImage, error) {
	if _, err := s.repo.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}

	image := &ProductImage{
		ID:           uuid.NewString(),
		ProductID:    productID,
		ImageURL:     imageURL,
		ThumbnailURL: thumbnailURL,
	}
	if err := s.repo.CreateImage(ctx, image); err != nil {
		return nil, err
	}
	return image, nil
}

func (s *Service) DeleteImage(ctx context.Context, imageID string) (*ProductImage, error) {
	image, err := s.repo.GetImageByID(ctx, imageID)
	if err != nil {
		return nil, err
	}

	deleted, err := s.repo.DeleteImage(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrImageNotFound
	}
	return image, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	if cached, ok := s.cache.Get(); ok {
		return cached, nil
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(categories, s.cacheTTL)
	return categories, nil
}

func (s *Service) GetCategory(ctx context.Context, categoryID string) (*Category, error) {
	return s.repo.GetCategoryByID(ctx, categoryID)
}

func (s *Service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	count, err := s.repo.CountCategoriesByName(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategoryNameTaken
	}

	category := &Category{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slugify(name),
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*Category, error) {
	category, err := s.repo.GetCategoryByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	if input.Name.Set {
		name := strings.TrimSpace(input.Name.Value)
		if name == "" {
			return nil, fmt.Errorf("name is required")
		}
		count, err := s.repo.CountCategoriesByName(ctx, name, category.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrCategoryNameTaken
		}
		category.Name = name
		category.Slug = slugify(name)
	}
	if input.Description.Set {
		category.Description = strings.TrimSpace(input.Description.Value)
	}
	category.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	return category, nil
}

func (s *Service) DeleteCategory(ctx context.Context, categoryID string) error {
	deleted, err := s.repo.DeleteCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCategoryNotFound
	}
	s.cache.Invalidate()
	return nil
}

func requireOwnerOrAdmin(product *Product, actorID, actorRole string) error {
	if actorRole == account.RoleAdmin {
		return nil
	}
	if product.VendorID != actorID {
		return ErrNotOwner
	}
	return nil
}

func buildVariations(inputs []VariationInput) ([]Variation, error) {
	if len(inputs) == 0 {
		return []Variation{}, nil
	}

	seen := make(map[string]struct{}, len(inputs))
	variations := make([]Variation, 0, len(inputs))
	for _, input := range inputs {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return nil, fmt.Errorf("variation name is required")
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return nil, ErrDuplicateVariation
		}
		seen[key] = struct{}{}

		if input.UnitPrice.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("variation price cannot be negative")
		}
		if input.Stock < 0 {
			return nil, fmt.Errorf("variation stock cannot be negative")
		}

		unit := strings.TrimSpace(input.UnitMeasurement)
		if unit == "" {
			unit = "piece"
		}

		variations = append(variations, Variation{
			ID:              uuid.NewString(),
			Name:            name,
			UnitPrice:       input.UnitPrice,
			Stock:           input.Stock,
			UnitMeasurement: unit,
			IsAvailable:     input.IsAvailable,
			IsDefault:       input.IsDefault,
		})
	}
	return variations, nil
}

func withProductID(productID string, variations []Variation) []Variation {
	result := make([]Variation, len(variations))
	for i, variation := range variations {
		variation.ProductID = productID
		result[i] = variation
	}
	return result
}

func orEmptyVariations(items []Variation) []Variation {
	if items == nil {
		return []Variation{}
	}
	return items
}

func orEmptyImages(items []ProductImage) []ProductImage {
	if items == nil {
		return []ProductImage{}
	}
	return items
}

var slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := slugNonAlnum.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
