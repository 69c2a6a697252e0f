package productcontroller

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zurpack/catalog-api/controllers/respond"
	"github.com/zurpack/catalog-api/media"
	"github.com/zurpack/catalog-api/models"
	"github.com/zurpack/catalog-api/repository"
)

// GetAllCategories returns the active categories sorted by name.
func GetAllCategories(categories *repository.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := categories.ListActive(c.Request.Context())
		if err != nil {
			respond.Error(c, err, "", "Error al obtener categorías")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetCategoryBySlug(categories *repository.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, err := categories.FindActiveBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respond.Error(c, err, "Categoría no encontrada", "Error al obtener la categoría")
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func CreateCategory(categories *repository.CategoryRepository, images media.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		category := models.Category{
			Name:        strings.TrimSpace(c.PostForm("name")),
			Description: strings.TrimSpace(c.PostForm("description")),
		}
		if category.Name == "" {
			respond.BadRequest(c, "name", "El nombre es requerido")
			return
		}
		if category.Description == "" {
			respond.BadRequest(c, "description", "La descripción es requerida")
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			respond.BadRequest(c, "image", "La imagen es requerida")
			return
		}
		category.ImageURL, err = images.Upload(ctx, media.CategoriesFolder, file)
		if err != nil {
			log.Println("❌ Failed to upload category image:", err)
			c.JSON(http.StatusBadGateway, gin.H{"message": "Error al subir la imagen"})
			return
		}

		if err := categories.Create(ctx, &category); err != nil {
			_ = images.Delete(ctx, category.ImageURL)
			respond.Error(c, err, "", "Error al crear categoría")
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// UpdateCategory applies name, description, active and an optional image.
func UpdateCategory(categories *repository.CategoryRepository, images media.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		category, err := categories.FindByID(ctx, c.Param("id"))
		if err != nil {
			respond.Error(c, err, "Categoría no encontrada", "Error al actualizar categoría")
			return
		}

		if v := strings.TrimSpace(c.PostForm("name")); v != "" {
			category.Name = v
		}
		if v := strings.TrimSpace(c.PostForm("description")); v != "" {
			category.Description = v
		}
		if v, ok := formBool(c, "active"); ok {
			category.Active = v
		}

		oldImage := category.ImageURL
		if file, err := c.FormFile("image"); err == nil {
			url, err := images.Upload(ctx, media.CategoriesFolder, file)
			if err != nil {
				log.Println("❌ Failed to upload category image:", err)
				c.JSON(http.StatusBadGateway, gin.H{"message": "Error al subir la imagen"})
				return
			}
			category.ImageURL = url
		}

		if err := categories.Update(ctx, category); err != nil {
			respond.Error(c, err, "Categoría no encontrada", "Error al actualizar categoría")
			return
		}
		if category.ImageURL != oldImage && oldImage != "" {
			if err := images.Delete(ctx, oldImage); err != nil {
				log.Println("⚠️ Failed to delete previous image:", err)
			}
		}
		c.JSON(http.StatusOK, category)
	}
}

// DeleteCategory deactivates the category; its products stop being listed.
func DeleteCategory(categories *repository.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := categories.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
			respond.Error(c, err, "Categoría no encontrada", "Error al eliminar categoría")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Categoría eliminada correctamente"})
	}
}
