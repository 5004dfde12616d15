// internal/middleware/logging.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/marketquery/backend/internal/models"
)

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		userID, _ := c.Get("user_id")
		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": duration.Milliseconds(),
			"ip":       c.ClientIP(),
			"user_id":  userID,
		}).Info("Request processed")
	}
}

// UsageLog appends an ApiLog row for authenticated mutating requests.
// GET traffic through the session surface is not recorded; the external
// gate does its own accounting.
func UsageLog(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == "GET" {
			return
		}

		userIDVal, exists := c.Get("user_id")
		if !exists {
			return
		}
		userID, ok := userIDVal.(uuid.UUID)
		if !ok {
			return
		}

		log := &models.ApiLog{
			UserID:     userID,
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: c.Writer.Status(),
		}
		go func() {
			if err := db.Create(log).Error; err != nil {
				logrus.WithError(err).Error("Failed to record usage log")
			}
		}()
	}
}
