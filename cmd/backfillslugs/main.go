// Command backfillslugs assigns slugs to products and categories stored
// before slugs were introduced.
package main

import (
	"context"
	"log"

	"github.com/zurpack/catalog-api/config"
	"github.com/zurpack/catalog-api/database"
	"github.com/zurpack/catalog-api/repository"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	db, err := database.Open(cfg.Database, logger.Warn)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	products, categories, err := backfill(
		context.Background(),
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
	)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Printf("✅ Slugs assigned to %d products and %d categories", products, categories)
}

// backfill re-saves every row without a slug so the save hooks assign one.
func backfill(ctx context.Context, products *repository.ProductRepository, categories *repository.CategoryRepository) (int, int, error) {
	missingCategories, err := categories.MissingSlugs(ctx)
	if err != nil {
		return 0, 0, err
	}
	for i := range missingCategories {
		c := &missingCategories[i]
		if err := categories.Update(ctx, c); err != nil {
			return 0, 0, err
		}
		log.Printf("🏷️ Category %q -> %s", c.Name, c.Slug)
	}

	missingProducts, err := products.MissingSlugs(ctx)
	if err != nil {
		return 0, len(missingCategories), err
	}
	for i := range missingProducts {
		p := &missingProducts[i]
		if err := products.Update(ctx, p); err != nil {
			return 0, len(missingCategories), err
		}
		log.Printf("🏷️ Product %q -> %s", p.Name, p.Slug)
	}
	return len(missingProducts), len(missingCategories), nil
}
