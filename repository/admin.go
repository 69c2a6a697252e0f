package repository

import (
	"context"
	"fmt"

	"github.com/zurpack/catalog-api/models"
	"gorm.io/gorm"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, "username = ?", username).Error; err != nil {
		return nil, notFound(err)
	}
	return &admin, nil
}

func (r *AdminRepository) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &admin, nil
}

// Reset deletes every admin and creates admin in their place.
func (r *AdminRepository) Reset(ctx context.Context, admin *models.Admin) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Admin{}).Error; err != nil {
			return err
		}
		return tx.Create(admin).Error
	})
	if err != nil {
		return fmt.Errorf("failed to reset admins: %w", err)
	}
	return nil
}
