package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// SizeVariant is a size option of a product.
type SizeVariant struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	ProductID   string `gorm:"type:varchar(36);index;not null" json:"-"`
	Size        string `gorm:"not null" json:"size"`
	IsAvailable bool   `json:"isAvailable"`
}

type Product struct {
	ID              string        `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Name            string        `gorm:"not null" json:"name"`
	Slug            string        `gorm:"uniqueIndex;not null" json:"slug"`
	Description     string        `gorm:"not null" json:"description"`
	CategoryID      string        `gorm:"type:varchar(36);index;not null" json:"-"`
	Category        *Category     `gorm:"foreignKey:CategoryID" json:"category"`
	ImageURL        string        `gorm:"not null" json:"imageUrl"`
	Featured        bool          `gorm:"index" json:"featured"`
	HasSizeVariants bool          `json:"hasSizeVariants"`
	SizeVariants    []SizeVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"sizeVariants"`
	Views           int           `json:"views"`
	Rating          float64       `json:"rating"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// Validate checks required fields and the variant invariant.
func (p *Product) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return &ValidationError{Field: "name", Message: "name is required"}
	case strings.TrimSpace(p.Description) == "":
		return &ValidationError{Field: "description", Message: "description is required"}
	case p.CategoryID == "":
		return &ValidationError{Field: "category", Message: "category is required"}
	case p.ImageURL == "":
		return &ValidationError{Field: "image", Message: "image is required"}
	}

	if !p.HasSizeVariants {
		if len(p.SizeVariants) > 0 {
			return &ValidationError{Field: "sizeVariants", Message: "product without size variants cannot list sizes"}
		}
		return nil
	}
	if len(p.SizeVariants) == 0 {
		return &ValidationError{Field: "sizeVariants", Message: "product must have at least one size"}
	}
	for _, v := range p.SizeVariants {
		if strings.TrimSpace(v.Size) == "" {
			return &ValidationError{Field: "sizeVariants", Message: "size label is required"}
		}
	}
	return nil
}

// HasSize reports whether size is one of the product's variants.
func (p *Product) HasSize(size string) bool {
	for _, v := range p.SizeVariants {
		if v.Size == size {
			return true
		}
	}
	return false
}

// CategoryName returns the populated category's name, or "".
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// BeforeSave validates the product and assigns its slug.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	ensureID(&p.ID)
	if err := p.Validate(); err != nil {
		return err
	}
	return assignSlug(tx, &Product{}, p.ID, p.Name, &p.Slug)
}
