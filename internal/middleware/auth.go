// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marketquery/backend/internal/models"
	"github.com/marketquery/backend/internal/utils"
)

// AuthRequired verifies the bearer token and attaches the caller's identity
// and role to the request context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c, "Token tidak ditemukan, silakan login")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.UnauthorizedResponse(c, "Token tidak valid atau sudah kadaluarsa")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			utils.UnauthorizedResponse(c, "Token tidak valid atau sudah kadaluarsa")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// AdminRequired composes with AuthRequired on admin-only routes.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != models.RoleAdmin {
			utils.ForbiddenResponse(c, "Akses ditolak: hanya untuk admin")
			c.Abort()
			return
		}
		c.Next()
	}
}
