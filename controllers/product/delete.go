package productcontroller

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zurpack/catalog-api/controllers/respond"
	"github.com/zurpack/catalog-api/media"
	"github.com/zurpack/catalog-api/repository"
)

// DeleteProduct destroys the product image, then the product.
func DeleteProduct(products *repository.ProductRepository, images media.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		product, err := products.FindByID(ctx, c.Param("id"))
		if err != nil {
			respond.Error(c, err, "Producto no encontrado", "Error al eliminar producto")
			return
		}

		if product.ImageURL != "" {
			if err := images.Delete(ctx, product.ImageURL); err != nil {
				log.Println("⚠️ Failed to delete product image:", err)
			}
		}

		if err := products.Delete(ctx, product.ID); err != nil {
			respond.Error(c, err, "Producto no encontrado", "Error al eliminar producto")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Producto eliminado correctamente"})
	}
}
