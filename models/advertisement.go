package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	DefaultAdBackground = "#000000"
	DefaultAdText       = "#FFFFFF"
)

// Advertisement is the banner shown above the storefront. At most one is
// active at a time.
type Advertisement struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Text            string    `gorm:"not null" json:"text"`
	BackgroundColor string    `gorm:"not null" json:"backgroundColor"`
	TextColor       string    `gorm:"not null" json:"textColor"`
	IsActive        bool      `gorm:"index;not null" json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// BeforeSave fills default colours and, when this advertisement is active,
// deactivates every other one inside the same transaction.
func (a *Advertisement) BeforeSave(tx *gorm.DB) error {
	ensureID(&a.ID)
	if strings.TrimSpace(a.Text) == "" {
		return &ValidationError{Field: "text", Message: "text is required"}
	}
	if a.BackgroundColor == "" {
		a.BackgroundColor = DefaultAdBackground
	}
	if a.TextColor == "" {
		a.TextColor = DefaultAdText
	}
	if !a.IsActive {
		return nil
	}

	return tx.Session(&gorm.Session{NewDB: true, SkipHooks: true}).
		Model(&Advertisement{}).
		Where("id <> ? AND is_active = ?", a.ID, true).
		Update("is_active", false).Error
}
