package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/zurpack/catalog-api/controllers/cart"
)

// SetupCartRoutes registers the session cart under "/api/cart".
func SetupCartRoutes(api *gin.RouterGroup, d *Deps) {
	cartGroup := api.Group("/cart")
	{
		cartGroup.GET("", cartControllers.GetCart(d.Carts))
		cartGroup.DELETE("", cartControllers.ClearCart(d.Carts))
		cartGroup.POST("/items", cartControllers.AddItem(d.Carts, d.Products))
		cartGroup.PATCH("/items/:productId", cartControllers.SetQuantity(d.Carts))
		cartGroup.DELETE("/items/:productId", cartControllers.RemoveItem(d.Carts))
		cartGroup.POST("/quotation", cartControllers.RequestQuotation(d.Carts, d.Desk))
	}
}
