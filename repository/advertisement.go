package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/zurpack/catalog-api/models"
	"gorm.io/gorm"
)

type AdvertisementRepository struct {
	db *gorm.DB
}

func NewAdvertisementRepository(db *gorm.DB) *AdvertisementRepository {
	return &AdvertisementRepository{db: db}
}

// List returns every advertisement, newest first.
func (r *AdvertisementRepository) List(ctx context.Context) ([]models.Advertisement, error) {
	var ads []models.Advertisement
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&ads).Error; err != nil {
		return nil, fmt.Errorf("failed to list advertisements: %w", err)
	}
	return ads, nil
}

// Active returns the active advertisement, or nil when none is.
func (r *AdvertisementRepository) Active(ctx context.Context) (*models.Advertisement, error) {
	var ad models.Advertisement
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		First(&ad).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active advertisement: %w", err)
	}
	return &ad, nil
}

func (r *AdvertisementRepository) FindByID(ctx context.Context, id string) (*models.Advertisement, error) {
	var ad models.Advertisement
	if err := r.db.WithContext(ctx).First(&ad, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ad, nil
}

// Save creates or updates ad. Activating it deactivates the others in the
// same transaction.
func (r *AdvertisementRepository) Save(ctx context.Context, ad *models.Advertisement) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ad.ID == "" {
			return tx.Create(ad).Error
		}
		return tx.Save(ad).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save advertisement: %w", err)
	}
	return nil
}

// Toggle flips the active flag of the advertisement with id.
func (r *AdvertisementRepository) Toggle(ctx context.Context, id string) (*models.Advertisement, error) {
	ad, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ad.IsActive = !ad.IsActive
	if err := r.Save(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

func (r *AdvertisementRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Advertisement{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete advertisement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
