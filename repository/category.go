package repository

import (
	"context"
	"fmt"

	"github.com/zurpack/catalog-api/models"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListActive returns active categories sorted by name.
func (r *CategoryRepository) ListActive(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name").Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

// FindActiveBySlug returns an active category by slug.
func (r *CategoryRepository) FindActiveBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("slug = ? AND active = ?", slug, true).
		First(&category).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	category.Active = true
	err := createWithSlugRetry(ctx, r.db, &category.Slug, func(tx *gorm.DB) error {
		return tx.Create(category).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Update saves every field of category.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a category; its products stop being listed.
func (r *CategoryRepository) Deactivate(ctx context.Context, id string) error {
	category, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	category.Active = false
	return r.Update(ctx, category)
}

// MissingSlugs returns categories saved before slugs existed.
func (r *CategoryRepository) MissingSlugs(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("slug IS NULL OR slug = ''").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to find categories without slug: %w", err)
	}
	return categories, nil
}
