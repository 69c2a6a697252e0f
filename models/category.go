package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"not null" json:"description"`
	ImageURL    string    `gorm:"not null" json:"imageUrl"`
	Active      bool      `gorm:"index;not null" json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeSave validates the category and assigns its slug.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	ensureID(&c.ID)
	switch {
	case strings.TrimSpace(c.Name) == "":
		return &ValidationError{Field: "name", Message: "name is required"}
	case strings.TrimSpace(c.Description) == "":
		return &ValidationError{Field: "description", Message: "description is required"}
	case c.ImageURL == "":
		return &ValidationError{Field: "image", Message: "image is required"}
	}
	return assignSlug(tx, &Category{}, c.ID, c.Name, &c.Slug)
}
