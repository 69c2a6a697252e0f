package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zurpack/catalog-api/controllers/respond"
	"github.com/zurpack/catalog-api/repository"
)

// GetProducts lists every product of an active category, newest first.
func GetProducts(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.ListVisible(c.Request.Context())
		if err != nil {
			respond.Error(c, err, "", "Error al obtener productos")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetFeaturedProducts(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.ListFeatured(c.Request.Context())
		if err != nil {
			respond.Error(c, err, "", "Error al obtener productos destacados")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
