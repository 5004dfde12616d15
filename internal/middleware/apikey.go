// internal/middleware/apikey.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/marketquery/backend/internal/models"
	"github.com/marketquery/backend/internal/utils"
)

// ApiKeyRequired authorizes the external read-only surface. The key is looked
// up in the api_keys table and must be active; the owning user is attached to
// the context and every request through this gate is recorded as an ApiLog row.
func ApiKeyRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			utils.UnauthorizedResponse(c, "API key tidak ditemukan")
			c.Abort()
			return
		}

		var apiKey models.ApiKey
		if err := db.Where("key = ? AND status = ?", key, models.ApiKeyStatusActive).
			First(&apiKey).Error; err != nil {
			utils.UnauthorizedResponse(c, "API key tidak valid")
			c.Abort()
			return
		}

		c.Set("user_id", apiKey.UserID)
		c.Set("role", models.RoleUser)

		c.Next()

		// Usage accounting feeds the stats aggregation.
		log := &models.ApiLog{
			UserID:     apiKey.UserID,
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: c.Writer.Status(),
		}
		go func() {
			if err := db.Create(log).Error; err != nil {
				logrus.WithError(err).Error("Failed to record API usage log")
			}
		}()
	}
}
