package productcontroller

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zurpack/catalog-api/controllers/respond"
	"github.com/zurpack/catalog-api/media"
	"github.com/zurpack/catalog-api/repository"
)

// UpdateProduct applies the submitted fields. A new image replaces and
// destroys the old one.
func UpdateProduct(products *repository.ProductRepository, categories *repository.CategoryRepository, images media.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		product, err := products.FindByID(ctx, c.Param("id"))
		if err != nil {
			respond.Error(c, err, "Producto no encontrado", "Error al actualizar producto")
			return
		}

		if v := strings.TrimSpace(c.PostForm("name")); v != "" {
			product.Name = v
		}
		if v := strings.TrimSpace(c.PostForm("description")); v != "" {
			product.Description = v
		}
		if v := c.PostForm("category"); v != "" && v != product.CategoryID {
			if _, err := categories.FindByID(ctx, v); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					respond.BadRequest(c, "category", "La categoría seleccionada no existe")
					return
				}
				respond.Error(c, err, "", "Error al actualizar producto")
				return
			}
			product.CategoryID = v
			product.Category = nil
		}
		if v, ok := formBool(c, "featured"); ok {
			product.Featured = v
		}
		variants, sent, err := formVariants(c)
		if err != nil {
			respond.BadRequest(c, "sizeVariants", "Error en el formato de sizeVariants")
			return
		}
		if sent {
			product.SizeVariants = variants
		}
		if v, ok := formBool(c, "hasSizeVariants"); ok {
			product.HasSizeVariants = v
			if !v {
				product.SizeVariants = nil
			}
		}
		if err := product.Validate(); err != nil {
			respond.Error(c, err, "", "Error al actualizar producto")
			return
		}

		oldImage := product.ImageURL
		if file, err := c.FormFile("image"); err == nil {
			url, err := images.Upload(ctx, media.ProductsFolder, file)
			if err != nil {
				log.Println("❌ Failed to upload product image:", err)
				c.JSON(http.StatusBadGateway, gin.H{"message": "Error al subir la imagen"})
				return
			}
			product.ImageURL = url
		}

		if err := products.Update(ctx, product); err != nil {
			if product.ImageURL != oldImage {
				_ = images.Delete(ctx, product.ImageURL)
			}
			respond.Error(c, err, "Producto no encontrado", "Error al actualizar producto")
			return
		}

		if product.ImageURL != oldImage && oldImage != "" {
			if err := images.Delete(ctx, oldImage); err != nil {
				log.Println("⚠️ Failed to delete previous image:", err)
			}
		}
		c.JSON(http.StatusOK, product)
	}
}
