package models

import (
	"time"

	"gorm.io/gorm"
)

type Admin struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
