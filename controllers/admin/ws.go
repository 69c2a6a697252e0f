package adminController

import (
	"github.com/gin-gonic/gin"
	"github.com/zurpack/catalog-api/notify"
)

// RequestsWebSocket streams quotation and contact events to the dashboard.
func RequestsWebSocket(hub *notify.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.Serve(c.Writer, c.Request)
	}
}
