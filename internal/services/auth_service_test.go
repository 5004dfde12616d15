package services_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/marketquery/backend/internal/config"
	"github.com/marketquery/backend/internal/models"
	"github.com/marketquery/backend/internal/services"
	"github.com/marketquery/backend/internal/utils"
)

func setupAuthTest(t *testing.T) (*services.AuthService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.ApiKey{}, &models.ApiLog{}))

	utils.SetJWTSecret("test-secret")
	cfg := &config.Config{
		JWT: config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 24},
	}

	return services.NewAuthService(db, cfg), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, db := setupAuthTest(t)

	user, err := svc.Register(&services.RegisterRequest{
		Name:     "Budi",
		Email:    "budi@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)

	// Registration provisions an API key right away.
	var apiKey models.ApiKey
	require.NoError(t, db.Where("id_user = ?", user.ID).First(&apiKey).Error)
	assert.Equal(t, models.ApiKeyStatusActive, apiKey.Status)
	assert.NotEmpty(t, apiKey.Key)

	resp, err := svc.Login(&services.LoginRequest{
		Email:    "budi@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := utils.ValidateJWT(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := setupAuthTest(t)

	req := &services.RegisterRequest{Name: "Budi", Email: "budi@example.com", Password: "password123"}
	_, err := svc.Register(req)
	require.NoError(t, err)

	_, err = svc.Register(req)
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, err := svc.Register(&services.RegisterRequest{Name: "Budi", Email: "budi@example.com", Password: "short"})
	assert.Error(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, err := svc.Register(&services.RegisterRequest{Name: "Budi", Email: "budi@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(&services.LoginRequest{Email: "budi@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = svc.Login(&services.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	svc, _ := setupAuthTest(t)

	user, err := svc.Register(&services.RegisterRequest{Name: "Budi", Email: "budi@example.com", Password: "password123"})
	require.NoError(t, err)

	err = svc.ChangePassword(user.ID, &services.ChangePasswordRequest{
		OldPassword: "wrong-password",
		NewPassword: "newpassword456",
	})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	err = svc.ChangePassword(user.ID, &services.ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "newpassword456",
	})
	require.NoError(t, err)

	_, err = svc.Login(&services.LoginRequest{Email: "budi@example.com", Password: "newpassword456"})
	assert.NoError(t, err)
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	svc, _ := setupAuthTest(t)

	userA, err := svc.Register(&services.RegisterRequest{Name: "Budi", Email: "budi@example.com", Password: "password123"})
	require.NoError(t, err)
	_, err = svc.Register(&services.RegisterRequest{Name: "Sari", Email: "sari@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(userA.ID, &services.UpdateProfileRequest{Name: "Budi", Email: "sari@example.com"})
	assert.ErrorIs(t, err, services.ErrEmailTaken)

	updated, err := svc.UpdateProfile(userA.ID, &services.UpdateProfileRequest{Name: "Budi Santoso", Email: "budi@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", updated.Name)
}

func TestResetApiKeyRotates(t *testing.T) {
	svc, db := setupAuthTest(t)

	user, err := svc.Register(&services.RegisterRequest{Name: "Budi", Email: "budi@example.com", Password: "password123"})
	require.NoError(t, err)

	var before models.ApiKey
	require.NoError(t, db.Where("id_user = ?", user.ID).First(&before).Error)

	// Simulate a revoked key; reset must reactivate it.
	require.NoError(t, db.Model(&before).Update("status", models.ApiKeyStatusRevoked).Error)

	after, err := svc.ResetApiKey(user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, before.Key, after.Key)
	assert.Equal(t, models.ApiKeyStatusActive, after.Status)

	var count int64
	require.NoError(t, db.Model(&models.ApiKey{}).Where("id_user = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResetApiKeyCreatesWhenMissing(t *testing.T) {
	svc, db := setupAuthTest(t)

	user := &models.User{Name: "Legacy", Email: "legacy@example.com", Role: models.RoleUser}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)

	apiKey, err := svc.ResetApiKey(user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, apiKey.Key)
	assert.Equal(t, models.ApiKeyStatusActive, apiKey.Status)
}

func TestDeleteUser(t *testing.T) {
	svc, db := setupAuthTest(t)

	admin := &models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin}
	require.NoError(t, admin.SetPassword("password123"))
	require.NoError(t, db.Create(admin).Error)

	user, err := svc.Register(&services.RegisterRequest{Name: "Budi", Email: "budi@example.com", Password: "password123"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteUser(admin.ID, admin.ID), services.ErrSelfDelete)

	require.NoError(t, svc.DeleteUser(admin.ID, user.ID))

	_, err = svc.GetProfile(user.ID)
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	var keyCount int64
	require.NoError(t, db.Model(&models.ApiKey{}).Where("id_user = ?", user.ID).Count(&keyCount).Error)
	assert.Equal(t, int64(0), keyCount)

	assert.ErrorIs(t, svc.DeleteUser(admin.ID, user.ID), services.ErrUserNotFound)
}

func TestListUsersPagination(t *testing.T) {
	svc, _ := setupAuthTest(t)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.Register(&services.RegisterRequest{Name: "User", Email: email, Password: "password123"})
		require.NoError(t, err)
	}

	users, total, err := svc.ListUsers(utils.PaginationParams{Page: 1, Limit: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 2)

	users, _, err = svc.ListUsers(utils.PaginationParams{Page: 2, Limit: 2})
	assert.NoError(t, err)
	assert.Len(t, users, 1)
}
