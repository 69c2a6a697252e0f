package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zurpack/catalog-api/middleware"
	"github.com/zurpack/catalog-api/models"
)

// CurrentAdmin returns the admin authenticated by RequireAdmin.
func CurrentAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, ok := c.Get(middleware.AdminKey)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "No autorizado"})
			return
		}
		a := admin.(*models.Admin)
		c.JSON(http.StatusOK, gin.H{"_id": a.ID, "username": a.Username})
	}
}
