package productcontroller

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zurpack/catalog-api/controllers/respond"
	"github.com/zurpack/catalog-api/media"
	"github.com/zurpack/catalog-api/models"
	"github.com/zurpack/catalog-api/repository"
)

// CreateProduct creates a product from a multipart form with a required image.
func CreateProduct(products *repository.ProductRepository, categories *repository.CategoryRepository, images media.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		file, err := c.FormFile("image")
		if err != nil {
			respond.BadRequest(c, "image", "No se ha proporcionado una imagen")
			return
		}

		product := models.Product{
			Name:        strings.TrimSpace(c.PostForm("name")),
			Description: strings.TrimSpace(c.PostForm("description")),
			CategoryID:  c.PostForm("category"),
		}
		switch {
		case product.Name == "":
			respond.BadRequest(c, "name", "El nombre es requerido")
			return
		case product.Description == "":
			respond.BadRequest(c, "description", "La descripción es requerida")
			return
		case product.CategoryID == "":
			respond.BadRequest(c, "category", "La categoría es requerida")
			return
		}

		if _, err := categories.FindByID(ctx, product.CategoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				respond.BadRequest(c, "category", "La categoría seleccionada no existe")
				return
			}
			respond.Error(c, err, "", "Error al crear producto")
			return
		}

		variants, _, err := formVariants(c)
		if err != nil {
			respond.BadRequest(c, "sizeVariants", "Error en el formato de sizeVariants")
			return
		}
		product.SizeVariants = variants
		product.Featured, _ = formBool(c, "featured")
		if has, ok := formBool(c, "hasSizeVariants"); ok {
			product.HasSizeVariants = has
		} else {
			product.HasSizeVariants = len(variants) > 0
		}
		// Validate before uploading; the real URL replaces the file name.
		product.ImageURL = file.Filename
		if err := product.Validate(); err != nil {
			respond.Error(c, err, "", "Error al crear producto")
			return
		}

		imageURL, err := images.Upload(ctx, media.ProductsFolder, file)
		if err != nil {
			log.Println("❌ Failed to upload product image:", err)
			c.JSON(http.StatusBadGateway, gin.H{"message": "Error al subir la imagen"})
			return
		}
		product.ImageURL = imageURL

		if err := products.Create(ctx, &product); err != nil {
			if derr := images.Delete(ctx, imageURL); derr != nil {
				log.Println("⚠️ Failed to remove orphaned image:", derr)
			}
			respond.Error(c, err, "", "Error al crear producto")
			return
		}

		log.Printf("✅ Product created: %s (%s)", product.Name, product.Slug)
		c.JSON(http.StatusCreated, product)
	}
}
