// internal/services/stats_service.go
package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/marketquery/backend/internal/models"
)

// recentLogLimit bounds the most-recent activity slice in both branches.
const recentLogLimit = 50

// NoApiKeySentinel is returned in place of a key for accounts without one.
const NoApiKeySentinel = "Belum ada Key"

type StatsService struct {
	db *gorm.DB
}

type AdminStats struct {
	TotalProducts int64           `json:"totalProducts"`
	TotalUsers    int64           `json:"totalUsers"`
	TotalApiKeys  int64           `json:"totalApiKeys"`
	RecentLogs    []models.ApiLog `json:"recentLogs"`
}

type UserStats struct {
	TotalRequests int64           `json:"totalRequests"`
	ApiKey        string          `json:"apiKey"`
	SystemStatus  string          `json:"systemStatus"`
	RecentLogs    []models.ApiLog `json:"recentLogs"`
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// AdminStats aggregates global counters plus the most recent activity of all
// users. The independent queries are fanned out and joined before returning.
func (s *StatsService) AdminStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{RecentLogs: make([]models.ApiLog, 0)}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.Product{}).Count(&stats.TotalProducts).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.User{}).
			Where("role = ?", models.RoleUser).
			Count(&stats.TotalUsers).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.ApiKey{}).Count(&stats.TotalApiKeys).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Order("created_at DESC").
			Limit(recentLogLimit).
			Preload("User", func(db *gorm.DB) *gorm.DB {
				return db.Select("id_user", "nama", "email")
			}).
			Find(&stats.RecentLogs).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return stats, nil
}

// UserStats aggregates the caller's own usage: request total, recent logs and
// API key state. A user with no activity gets zeroes and an empty slice.
func (s *StatsService) UserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	stats := &UserStats{
		ApiKey:       NoApiKeySentinel,
		SystemStatus: "INACTIVE",
		RecentLogs:   make([]models.ApiLog, 0),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.ApiLog{}).
			Where("id_user = ?", userID).
			Count(&stats.TotalRequests).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Where("id_user = ?", userID).
			Order("id_log DESC").
			Limit(recentLogLimit).
			Find(&stats.RecentLogs).Error
	})
	g.Go(func() error {
		var apiKey models.ApiKey
		err := s.db.WithContext(gctx).Where("id_user = ?", userID).First(&apiKey).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}
		stats.ApiKey = apiKey.Key
		if apiKey.Status == models.ApiKeyStatusActive {
			stats.SystemStatus = "ACTIVE"
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return stats, nil
}
