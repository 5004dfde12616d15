package services_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/marketquery/backend/internal/models"
	"github.com/marketquery/backend/internal/services"
)

func setupStatsTest(t *testing.T) (*services.StatsService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.ApiKey{}, &models.ApiLog{}))

	return services.NewStatsService(db), db
}

func createUser(t *testing.T, db *gorm.DB, name, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, Role: role}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestUserStatsWithoutActivity(t *testing.T) {
	svc, db := setupStatsTest(t)
	user := createUser(t, db, "Budi", "budi@example.com", models.RoleUser)

	stats, err := svc.UserStats(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalRequests)
	assert.Empty(t, stats.RecentLogs)
	assert.Equal(t, services.NoApiKeySentinel, stats.ApiKey)
	assert.Equal(t, "INACTIVE", stats.SystemStatus)
}

func TestUserStatsWithKeyAndLogs(t *testing.T) {
	svc, db := setupStatsTest(t)
	user := createUser(t, db, "Sari", "sari@example.com", models.RoleUser)
	other := createUser(t, db, "Andi", "andi@example.com", models.RoleUser)

	require.NoError(t, db.Create(&models.ApiKey{
		UserID: user.ID,
		Key:    "mq_testkey",
		Status: models.ApiKeyStatusActive,
	}).Error)

	for _, path := range []string{"/api/products/external/all", "/api/products/external/all", "/api/auth/profile"} {
		require.NoError(t, db.Create(&models.ApiLog{
			UserID:     user.ID,
			Method:     "GET",
			Path:       path,
			StatusCode: 200,
		}).Error)
	}
	// Another user's log must not leak into the caller's view.
	require.NoError(t, db.Create(&models.ApiLog{
		UserID:     other.ID,
		Method:     "GET",
		Path:       "/api/products/external/all",
		StatusCode: 200,
	}).Error)

	stats, err := svc.UserStats(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalRequests)
	assert.Equal(t, "mq_testkey", stats.ApiKey)
	assert.Equal(t, "ACTIVE", stats.SystemStatus)
	require.Len(t, stats.RecentLogs, 3)
	// Newest first.
	for i := 1; i < len(stats.RecentLogs); i++ {
		assert.GreaterOrEqual(t, stats.RecentLogs[i-1].ID, stats.RecentLogs[i].ID)
	}
	for _, log := range stats.RecentLogs {
		assert.Equal(t, user.ID, log.UserID)
	}
}

func TestUserStatsRevokedKey(t *testing.T) {
	svc, db := setupStatsTest(t)
	user := createUser(t, db, "Rina", "rina@example.com", models.RoleUser)

	require.NoError(t, db.Create(&models.ApiKey{
		UserID: user.ID,
		Key:    "mq_revoked",
		Status: models.ApiKeyStatusRevoked,
	}).Error)

	stats, err := svc.UserStats(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "mq_revoked", stats.ApiKey)
	assert.Equal(t, "INACTIVE", stats.SystemStatus)
}

func TestAdminStatsCounts(t *testing.T) {
	svc, db := setupStatsTest(t)

	admin := createUser(t, db, "Admin", "admin@example.com", models.RoleAdmin)
	userA := createUser(t, db, "Budi", "budi@example.com", models.RoleUser)
	createUser(t, db, "Sari", "sari@example.com", models.RoleUser)

	require.NoError(t, db.Create(&models.Product{Name: "Kursi", Price: 150000, Category: "Furniture", Stock: 5}).Error)
	require.NoError(t, db.Create(&models.Product{Name: "Meja", Price: 200000, Category: "Furniture", Stock: 3}).Error)

	require.NoError(t, db.Create(&models.ApiKey{UserID: userA.ID, Key: "mq_a", Status: models.ApiKeyStatusActive}).Error)

	require.NoError(t, db.Create(&models.ApiLog{UserID: userA.ID, Method: "POST", Path: "/api/products", StatusCode: 201}).Error)
	require.NoError(t, db.Create(&models.ApiLog{UserID: admin.ID, Method: "DELETE", Path: "/api/products/x", StatusCode: 200}).Error)

	stats, err := svc.AdminStats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProducts)
	// Admin accounts are excluded from the user counter.
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalApiKeys)
	require.Len(t, stats.RecentLogs, 2)

	// The owner is preloaded so the activity view can show who did what.
	for _, log := range stats.RecentLogs {
		require.NotNil(t, log.User)
		assert.NotEmpty(t, log.User.Name)
		assert.NotEmpty(t, log.User.Email)
	}
}

func TestAdminStatsEmptyDatabase(t *testing.T) {
	svc, _ := setupStatsTest(t)

	stats, err := svc.AdminStats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalProducts)
	assert.Equal(t, int64(0), stats.TotalUsers)
	assert.Equal(t, int64(0), stats.TotalApiKeys)
	assert.Empty(t, stats.RecentLogs)
}
