// internal/handlers/stats.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/marketquery/backend/internal/models"
	"github.com/marketquery/backend/internal/services"
	"github.com/marketquery/backend/internal/utils"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GET /api/auth/stats
//
// The payload is branched on the caller's role: admins get global counters
// and the platform-wide activity feed, everyone else gets their own usage.
// Store failures deliberately collapse to one fixed message.
func (h *StatsHandler) GetStats(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "Token tidak ditemukan, silakan login")
		return
	}

	role, _ := utils.GetRoleFromContext(c)

	if role == models.RoleAdmin {
		stats, err := h.statsService.AdminStats(c.Request.Context())
		if err != nil {
			logrus.WithError(err).Error("Failed to aggregate admin stats")
			utils.InternalErrorResponse(c, "Gagal sinkron data statistik")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"role":    models.RoleAdmin,
			"data":    stats,
		})
		return
	}

	stats, err := h.statsService.UserStats(c.Request.Context(), userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to aggregate user stats")
		utils.InternalErrorResponse(c, "Gagal sinkron data statistik")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"role":    models.RoleUser,
		"data":    stats,
	})
}
