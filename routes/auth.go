package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/zurpack/catalog-api/auth"
	adminController "github.com/zurpack/catalog-api/controllers/admin"
)

// SetupAuthRoutes registers all "/api/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, d *Deps) {
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/login", auth.LoginHandler(d.Admins, d.Tokens))
		authGroup.GET("/me", requireAdmin(d), adminController.CurrentAdmin())
	}
}
