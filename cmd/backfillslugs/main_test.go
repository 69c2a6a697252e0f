package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zurpack/catalog-api/database"
	"github.com/zurpack/catalog-api/models"
	"github.com/zurpack/catalog-api/repository"
)

func TestBackfill(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	ctx := context.Background()
	products := repository.NewProductRepository(db)
	categories := repository.NewCategoryRepository(db)

	category := &models.Category{Name: "Cajas", Description: "Cajas", ImageURL: "https://img.example/c.jpg"}
	require.NoError(t, categories.Create(ctx, category))
	product := &models.Product{
		Name:        "Caja Chica",
		Description: "Caja de cartón",
		CategoryID:  category.ID,
		ImageURL:    "https://img.example/p.jpg",
	}
	require.NoError(t, products.Create(ctx, product))

	require.NoError(t, db.Model(&models.Category{}).Where("id = ?", category.ID).UpdateColumn("slug", "").Error)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).UpdateColumn("slug", "").Error)

	gotProducts, gotCategories, err := backfill(ctx, products, categories)
	require.NoError(t, err)
	assert.Equal(t, 1, gotProducts)
	assert.Equal(t, 1, gotCategories)

	reloaded, err := products.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "caja-chica", reloaded.Slug)

	again, _, err := backfill(ctx, products, categories)
	require.NoError(t, err)
	assert.Zero(t, again)
}
