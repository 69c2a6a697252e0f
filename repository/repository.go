// Package repository wraps GORM access to the catalog entities.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// createWithSlugRetry creates a slugged entity. A unique violation at commit
// time is retried once with a regenerated slug, unless the caller chose the
// slug.
func createWithSlugRetry(ctx context.Context, db *gorm.DB, slugField *string, create func(tx *gorm.DB) error) error {
	supplied := *slugField != ""
	err := db.WithContext(ctx).Transaction(create)
	if err == nil || supplied || !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	*slugField = ""
	return db.WithContext(ctx).Transaction(create)
}
