package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const deniedPage = `<!DOCTYPE html>
<html>
  <head><title>Acceso Denegado</title></head>
  <body>
    <h1>Acceso Denegado</h1>
    <p>No se permite el acceso directo a esta API.</p>
  </body>
</html>`

// ValidateAPIKey lets a request through when it comes from an allowed
// origin (Origin or Referer) or carries the X-API-Key.
func ValidateAPIKey(apiKey string, origins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if allowedOrigin(c.GetHeader("Origin"), origins) || allowedReferer(c.GetHeader("Referer"), origins) {
			c.Next()
			return
		}

		key := c.GetHeader("X-API-Key")
		if apiKey != "" && subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
			c.Next()
			return
		}

		if strings.Contains(c.GetHeader("Accept"), "text/html") {
			c.Data(http.StatusForbidden, "text/html; charset=utf-8", []byte(deniedPage))
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "Acceso denegado",
			"message": "No está autorizado para acceder a esta API",
		})
	}
}

func allowedOrigin(origin string, origins []string) bool {
	if origin == "" {
		return false
	}
	for _, o := range origins {
		if origin == o {
			return true
		}
	}
	return false
}

func allowedReferer(referer string, origins []string) bool {
	if referer == "" {
		return false
	}
	for _, o := range origins {
		if referer == o || strings.HasPrefix(referer, o+"/") {
			return true
		}
	}
	return false
}

// SameOrigin returns a websocket origin check that accepts the configured
// origins and non-browser clients that send no Origin header.
func SameOrigin(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowedOrigin(origin, origins)
	}
}
