package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/zurpack/catalog-api/controllers/admin"
	productcontroller "github.com/zurpack/catalog-api/controllers/product"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires an admin token.
func SetupAdminRoutes(r *gin.Engine, d *Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(requireAdmin(d))
	{
		adminGroup.GET("/ws", adminController.RequestsWebSocket(d.Hub))

		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(d.Products))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(d.Products, d.Categories))
		}
	}
}
