package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/zurpack/catalog-api/slug"
	"gorm.io/gorm"
)

// ValidationError reports an invalid field on save.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Category{},
		&Product{},
		&SizeVariant{},
		&Advertisement{},
		&Admin{},
	}
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// assignSlug sets *current for a save. A stored row keeps its stored slug
// until its name changes. A new row keeps a supplied slug, normalised;
// otherwise a fresh one unique within table is generated from name.
func assignSlug(tx *gorm.DB, table interface{}, id, name string, current *string) error {
	stored, found, err := storedRow(tx, table, id)
	if err != nil {
		return fmt.Errorf("%w: %w", slug.ErrStorageUnavailable, err)
	}

	switch {
	case found && stored.Name == name && stored.Slug != "":
		*current = stored.Slug
		return nil
	case !found && *current != "":
		if *current = slug.Make(*current); *current != "" {
			return nil
		}
	}

	s, err := slug.Generate(tx.Statement.Context, name, SlugExists(tx, table), id)
	if err != nil {
		return err
	}
	*current = s
	return nil
}

type slugRow struct {
	Name string
	Slug string
}

// storedRow loads the persisted name and slug of id, if the row exists.
func storedRow(tx *gorm.DB, table interface{}, id string) (slugRow, bool, error) {
	if id == "" {
		return slugRow{}, false, nil
	}
	var rows []slugRow
	err := tx.Session(&gorm.Session{NewDB: true}).
		Model(table).
		Select("name", "slug").
		Where("id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return slugRow{}, false, err
	}
	if len(rows) == 0 {
		return slugRow{}, false, nil
	}
	return rows[0], true, nil
}

// SlugExists returns an existence check over the slug column of table.
func SlugExists(db *gorm.DB, table interface{}) slug.ExistsFunc {
	return func(ctx context.Context, candidate, excludeID string) (bool, error) {
		var n int64
		err := db.Session(&gorm.Session{NewDB: true}).
			WithContext(ctx).
			Model(table).
			Where("slug = ? AND id <> ?", candidate, excludeID).
			Count(&n).Error
		if err != nil {
			return false, err
		}
		return n > 0, nil
	}
}

// AsValidation returns the ValidationError carried by err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
