package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zurpack/catalog-api/auth"
	cartControllers "github.com/zurpack/catalog-api/controllers/cart"
	quotationController "github.com/zurpack/catalog-api/controllers/quotation"
	"github.com/zurpack/catalog-api/media"
	"github.com/zurpack/catalog-api/middleware"
	"github.com/zurpack/catalog-api/notify"
	"github.com/zurpack/catalog-api/repository"
)

// Deps is everything the handlers need.
type Deps struct {
	Env            string
	APIKey         string
	AllowedOrigins []string

	Products       *repository.ProductRepository
	Categories     *repository.CategoryRepository
	Advertisements *repository.AdvertisementRepository
	Admins         *repository.AdminRepository

	Tokens  *auth.Tokens
	Images  media.Store
	Carts   *cartControllers.Carts
	Desk    *quotationController.Desk
	Hub     *notify.Hub
	Limiter middleware.Limiter

	// UploadDir is served under /uploads when images are stored locally.
	UploadDir string
}

// SetupRoutes is the single entry-point that wires every route group.
func SetupRoutes(r *gin.Engine, d *Deps) {
	r.Use(middleware.CORS(d.AllowedOrigins))
	r.Use(middleware.SecurityHeaders())
	if d.Limiter != nil {
		r.Use(middleware.RateLimit(d.Limiter))
	}

	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir)
	}

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": d.Env,
		})
	})

	// 1️⃣ Admin login (no API key)
	SetupAuthRoutes(r, d)

	// 2️⃣ Storefront API (API key or allowed origin)
	api := r.Group("/api", middleware.ValidateAPIKey(d.APIKey, d.AllowedOrigins))
	SetupCatalogRoutes(api, d)
	SetupCartRoutes(api, d)

	// 3️⃣ Admin tools (JWT)
	SetupAdminRoutes(r, d)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "Ruta no encontrada: " + c.Request.Method + " " + c.Request.URL.Path,
		})
	})
}

// requireAdmin is shorthand for the JWT guard.
func requireAdmin(d *Deps) gin.HandlerFunc {
	return middleware.RequireAdmin(d.Tokens, d.Admins)
}
