package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	catalogdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/catalog"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(catalogdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListProducts(ctx context.Context, filter catalogdomain.ListFilter) ([]catalogdomain.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalogdomain.Product{})
	if filter.VendorID != "" {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []catalogdomain.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *PostgresRepository) GetProductByID(ctx context.Context, productID string) (*catalogdomain.Product, error) {
	var product catalogdomain.Product
	if err := r.db.WithContext(ctx).Where("id = ?", productID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalogdomain.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *PostgresRepository) CreateProduct(ctx context.Context, product *catalogdomain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *PostgresRepository) UpdateProduct(ctx context.Context, product *catalogdomain.Product) error {
	return r.db.WithContext(ctx).
		Model(&catalogdomain.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"vendor_id":   product.VendorID,
			"category_id": product.CategoryID,
			"name":        product.Name,
			"description": product.Description,
			"status":      product.Status,
			"updated_at":  product.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) DeleteProducts(ctx context.Context, productIDs []string) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Delete(&catalogdomain.Product{}, "id IN ?", productIDs)
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) ListVariationsByProductIDs(ctx context.Context, productIDs []string) (map[string][]catalogdomain.Variation, error) {
	result := make(map[string][]catalogdomain.Variation, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	var variations []catalogdomain.Variation
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("is_default desc, name asc").
		Find(&variations).Error; err != nil {
		return nil, err
	}

	for _, variation := range variations {
		result[variation.ProductID] = append(result[variation.ProductID], variation)
	}
	return result, nil
}

func (r *PostgresRepository) ReplaceVariations(ctx context.Context, productID string, variations []catalogdomain.Variation) error {
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&catalogdomain.Variation{}).Error; err != nil {
		return err
	}
	if len(variations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&variations).Error
}

func (r *PostgresRepository) ListImagesByProductIDs(ctx context.Context, productIDs []string) (map[string][]catalogdomain.ProductImage, error) {
	result := make(map[string][]catalogdomain.ProductImage, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	var images []catalogdomain.ProductImage
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("uploaded_at asc").
		Find(&images).Error; err != nil {
		return nil, err
	}

	for _, image := range images {
		result[image.ProductID] = append(result[image.ProductID], image)
	}
	return result, nil
}

func (r *PostgresRepository) CreateImage(ctx context.Context, image *catalogdomain.ProductImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *PostgresRepository) GetImageByID(ctx context.Context, imageID string) (*catalogdomain.ProductImage, error) {
	var image catalogdomain.ProductImage
	if err := r.db.WithContext(ctx).Where("id = ?", imageID).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalogdomain.ErrImageNotFound
		}
		return nil, err
	}
	return &image, nil
}

func (r *PostgresRepository) DeleteImage(ctx context.Context, imageID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&catalogdomain.ProductImage{}, "id = ?", imageID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]catalogdomain.Category, error) {
	var categories []catalogdomain.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PostgresRepository) GetCategoryByID(ctx context.Context, categoryID string) (*catalogdomain.Category, error) {
	var category catalogdomain.Category
	if err := r.db.WithContext(ctx).Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalogdomain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *PostgresRepository) CountCategoriesByName(ctx context.Context, name, excludeID string) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&catalogdomain.Category{}).
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

func (r *PostgresRepository) CreateCategory(ctx context.Context, category *catalogdomain.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *PostgresRepository) UpdateCategory(ctx context.Context, category *catalogdomain.Category) error {
	return r.db.WithContext(ctx).
		Model(&catalogdomain.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name":        category.Name,
			"slug":        category.Slug,
			"description": category.Description,
			"updated_at":  category.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, categoryID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&catalogdomain.Category{}, "id = ?", categoryID)
	return result.RowsAffected > 0, result.Error
}
