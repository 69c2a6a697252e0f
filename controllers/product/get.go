package productcontroller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zurpack/catalog-api/controllers/respond"
	"github.com/zurpack/catalog-api/models"
	"github.com/zurpack/catalog-api/repository"
)

func GetProductBySlug(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := products.FindBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respond.Error(c, err, "Producto no encontrado", "Error al obtener el producto")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// GetProductsByCategory lists the products of an active category.
func GetProductsByCategory(products *repository.ProductRepository, categories *repository.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		category, err := categories.FindActiveBySlug(ctx, c.Param("categorySlug"))
		if err != nil {
			respond.Error(c, err, "Categoría no encontrada", "Error al obtener productos por categoría")
			return
		}

		list, err := products.ListByCategory(ctx, category.ID)
		if err != nil {
			respond.Error(c, err, "", "Error al obtener productos por categoría")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// SearchProducts matches ?name= within an optional ?category= slug.
// An empty name yields an empty list; an unknown category is ignored.
func SearchProducts(products *repository.ProductRepository, categories *repository.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.Query("name"))
		if name == "" {
			c.JSON(http.StatusOK, []models.Product{})
			return
		}
		ctx := c.Request.Context()

		var categoryID string
		if slug := c.Query("category"); slug != "" {
			category, err := categories.FindActiveBySlug(ctx, slug)
			switch {
			case err == nil:
				categoryID = category.ID
			case !errors.Is(err, repository.ErrNotFound):
				respond.Error(c, err, "", "Error en la búsqueda")
				return
			}
		}

		list, err := products.Search(ctx, name, categoryID)
		if err != nil {
			respond.Error(c, err, "", "Error en la búsqueda")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
