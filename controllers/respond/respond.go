// Package respond maps domain errors to JSON responses.
package respond

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zurpack/catalog-api/models"
	"github.com/zurpack/catalog-api/repository"
	"github.com/zurpack/catalog-api/slug"
	"gorm.io/gorm"
)

// Error writes err with the status its kind calls for. notFound is the
// message used for missing records; action names the failed operation in
// logs and 500 responses.
func Error(c *gin.Context, err error, notFound, action string) {
	if ve, ok := models.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": ve.Message, "field": ve.Field})
		return
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": notFound})
	case errors.Is(err, slug.ErrExhausted):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "could not derive a unique slug", "field": "name"})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{"message": "a record with the same name or slug already exists"})
	default:
		log.Printf("❌ %s: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": action})
	}
}

// BadRequest answers 400 naming the offending field.
func BadRequest(c *gin.Context, field, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message, "field": field})
}
