package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/zurpack/catalog-api/controllers/admin"
	productcontroller "github.com/zurpack/catalog-api/controllers/product"
	quotationController "github.com/zurpack/catalog-api/controllers/quotation"
)

// SetupCatalogRoutes registers categories, products, advertisements and the
// request forms. Mutations require an admin token.
func SetupCatalogRoutes(api *gin.RouterGroup, d *Deps) {
	admin := requireAdmin(d)

	// ─────────── Categories ───────────
	categories := api.Group("/categories")
	{
		categories.GET("", productcontroller.GetAllCategories(d.Categories))
		categories.GET("/:slug", productcontroller.GetCategoryBySlug(d.Categories))
		categories.POST("", admin, productcontroller.CreateCategory(d.Categories, d.Images))
		categories.PUT("/:id", admin, productcontroller.UpdateCategory(d.Categories, d.Images))
		categories.DELETE("/:id", admin, productcontroller.DeleteCategory(d.Categories))
	}

	// ─────────── Products ───────────
	products := api.Group("/products")
	{
		products.GET("", productcontroller.GetProducts(d.Products))
		products.GET("/featured", productcontroller.GetFeaturedProducts(d.Products))
		products.GET("/by-category/:categorySlug", productcontroller.GetProductsByCategory(d.Products, d.Categories))
		products.GET("/by-slug/:slug", productcontroller.GetProductBySlug(d.Products))
		products.GET("/search", productcontroller.SearchProducts(d.Products, d.Categories))
		products.POST("", admin, productcontroller.CreateProduct(d.Products, d.Categories, d.Images))
		products.PUT("/:id", admin, productcontroller.UpdateProduct(d.Products, d.Categories, d.Images))
		products.DELETE("/:id", admin, productcontroller.DeleteProduct(d.Products, d.Images))
	}

	// ─────────── Advertisements ───────────
	ads := api.Group("/advertisements")
	{
		ads.GET("", adminController.GetAdvertisements(d.Advertisements))
		ads.GET("/active", adminController.GetActiveAdvertisement(d.Advertisements))
		ads.POST("", admin, adminController.CreateAdvertisement(d.Advertisements))
		ads.PUT("/:id", admin, adminController.UpdateAdvertisement(d.Advertisements))
		ads.PUT("/:id/toggle", admin, adminController.ToggleAdvertisement(d.Advertisements))
		ads.DELETE("/:id", admin, adminController.DeleteAdvertisement(d.Advertisements))
	}

	// ─────────── Forms ───────────
	api.POST("/send-quotation", quotationController.SendQuotation(d.Desk))
	api.POST("/send-contact", quotationController.SendContact(d.Desk))
}
