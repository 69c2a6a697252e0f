package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/zurpack/catalog-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SearchLimit caps the number of products returned by Search.
const SearchLimit = 10

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// base preloads the category and variants and orders newest first.
func (r *ProductRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("SizeVariants").
		Order("products.created_at DESC")
}

// activeCategory restricts products to those whose category is active.
func activeCategory(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN categories ON categories.id = products.category_id AND categories.active = ?", true)
}

// ListVisible returns every product whose category is active.
func (r *ProductRepository) ListVisible(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.base(ctx).Scopes(activeCategory).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ListAll returns every product regardless of category state.
func (r *ProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.base(ctx).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ListFeatured returns featured products whose category is active.
func (r *ProductRepository) ListFeatured(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.base(ctx).Scopes(activeCategory).
		Where("products.featured = ?", true).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	return products, nil
}

// ListByCategory returns the products of one category.
func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	var products []models.Product
	err := r.base(ctx).Where("products.category_id = ?", categoryID).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products by category: %w", err)
	}
	return products, nil
}

// Search matches name case-insensitively as a substring. An empty
// categoryID searches all active categories.
func (r *ProductRepository) Search(ctx context.Context, name, categoryID string) ([]models.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(name)) + "%"
	query := r.base(ctx).Scopes(activeCategory).
		Where(`LOWER(products.name) LIKE ? ESCAPE '\'`, pattern)
	if categoryID != "" {
		query = query.Where("products.category_id = ?", categoryID)
	}

	var products []models.Product
	if err := query.Limit(SearchLimit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("SizeVariants").
		First(&product, "products.id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("SizeVariants").
		First(&product, "products.slug = ?", slug).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

// Create inserts product and its size variants.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	err := createWithSlugRetry(ctx, r.db, &product.Slug, func(tx *gorm.DB) error {
		return writeProduct(tx, product, true)
	})
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return r.reload(ctx, product)
}

// Update saves product and replaces its size variants.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.SizeVariant{}).Error; err != nil {
			return err
		}
		return writeProduct(tx, product, false)
	})
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return r.reload(ctx, product)
}

// writeProduct stores the product row, then its variants.
func writeProduct(tx *gorm.DB, product *models.Product, create bool) error {
	q := tx.Omit(clause.Associations)
	if create {
		q = q.Create(product)
	} else {
		q = q.Save(product)
	}
	if q.Error != nil {
		return q.Error
	}
	for i := range product.SizeVariants {
		product.SizeVariants[i].ID = 0
		product.SizeVariants[i].ProductID = product.ID
	}
	if len(product.SizeVariants) == 0 {
		return nil
	}
	return tx.Create(&product.SizeVariants).Error
}

func (r *ProductRepository) reload(ctx context.Context, product *models.Product) error {
	fresh, err := r.FindByID(ctx, product.ID)
	if err != nil {
		return err
	}
	*product = *fresh
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.SizeVariant{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Product{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// Upsert updates the product with product.ID when it exists, otherwise
// creates it.
func (r *ProductRepository) Upsert(ctx context.Context, product *models.Product) (created bool, err error) {
	if product.ID != "" {
		if existing, err := r.FindByID(ctx, product.ID); err == nil {
			product.CreatedAt = existing.CreatedAt
			return false, r.Update(ctx, product)
		}
	}
	return true, r.Create(ctx, product)
}

// MissingSlugs returns products saved before slugs existed.
func (r *ProductRepository) MissingSlugs(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Preload("SizeVariants").
		Where("slug IS NULL OR slug = ''").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products without slug: %w", err)
	}
	return products, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
