package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zurpack/catalog-api/auth"
	"github.com/zurpack/catalog-api/repository"
)

// AdminKey is the gin context key holding the authenticated *models.Admin.
const AdminKey = "admin"

// RequireAdmin accepts "Authorization: Bearer <token>" or, for websocket
// upgrades, a "token" query parameter, and loads the admin it names.
func RequireAdmin(tokens *auth.Tokens, admins *repository.AdminRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c.GetHeader("Authorization"))
		if raw == "" {
			raw = c.Query("token")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No autorizado, token no encontrado"})
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No autorizado"})
			return
		}

		admin, err := admins.FindByID(c.Request.Context(), claims.ID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				log.Println("❌ Failed to load admin:", err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No autorizado"})
			return
		}

		c.Set(AdminKey, admin)
		c.Next()
	}
}

func bearer(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
