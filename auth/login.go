package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zurpack/catalog-api/repository"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler exchanges a username and password for a token.
func LoginHandler(admins *repository.AdminRepository, tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
			return
		}

		admin, err := admins.FindByUsername(c.Request.Context(), req.Username)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && !CheckPassword(admin.PasswordHash, req.Password)) {
			log.Printf("⚠️ Failed login for %q", req.Username)
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		if err != nil {
			log.Println("❌ Failed to load admin:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
			return
		}

		token, err := tokens.Issue(admin.ID)
		if err != nil {
			log.Println("❌ Failed to sign token:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"_id":      admin.ID,
			"username": admin.Username,
			"token":    token,
		})
	}
}
