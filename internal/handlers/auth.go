// internal/handlers/auth.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/marketquery/backend/internal/services"
	"github.com/marketquery/backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Data registrasi tidak valid")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			utils.BadRequestResponse(c, "Email sudah terdaftar")
			return
		}
		logrus.WithError(err).Error("Failed to register user")
		utils.InternalErrorResponse(c, "Gagal melakukan registrasi")
		return
	}

	utils.CreatedResponse(c, "Registrasi berhasil", user)
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Data login tidak valid")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	auth, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.UnauthorizedResponse(c, "Email atau password salah")
			return
		}
		logrus.WithError(err).Error("Failed to login user")
		utils.InternalErrorResponse(c, "Gagal melakukan login")
		return
	}

	utils.SuccessResponse(c, "Login berhasil", auth)
}

// GET /api/auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "Token tidak ditemukan, silakan login")
		return
	}

	user, err := h.authService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.NotFoundResponse(c, "User tidak ditemukan")
			return
		}
		logrus.WithError(err).Error("Failed to get profile")
		utils.InternalErrorResponse(c, "Terjadi kesalahan server")
		return
	}

	utils.SuccessResponse(c, "Berhasil mengambil profil", user)
}

// PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "Token tidak ditemukan, silakan login")
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Data profil tidak valid")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	user, err := h.authService.UpdateProfile(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			utils.NotFoundResponse(c, "User tidak ditemukan")
		case errors.Is(err, services.ErrEmailTaken):
			utils.BadRequestResponse(c, "Email sudah terdaftar")
		default:
			logrus.WithError(err).Error("Failed to update profile")
			utils.InternalErrorResponse(c, "Gagal update profil")
		}
		return
	}

	utils.SuccessResponse(c, "Profil berhasil diupdate", user)
}

// PUT /api/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "Token tidak ditemukan, silakan login")
		return
	}

	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Data password tidak valid")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	if err := h.authService.ChangePassword(userID, &req); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			utils.BadRequestResponse(c, "Password lama salah")
		case errors.Is(err, services.ErrUserNotFound):
			utils.NotFoundResponse(c, "User tidak ditemukan")
		default:
			logrus.WithError(err).Error("Failed to change password")
			utils.InternalErrorResponse(c, "Gagal mengganti password")
		}
		return
	}

	utils.SuccessResponse(c, "Password berhasil diganti", nil)
}

// PUT /api/auth/reset-apikey
func (h *AuthHandler) ResetApiKey(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "Token tidak ditemukan, silakan login")
		return
	}

	apiKey, err := h.authService.ResetApiKey(userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to reset API key")
		utils.InternalErrorResponse(c, "Gagal reset API key")
		return
	}

	utils.SuccessResponse(c, "API key berhasil direset", apiKey)
}

// GET /api/auth/admin/users
func (h *AuthHandler) GetAllUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.authService.ListUsers(params)
	if err != nil {
		logrus.WithError(err).Error("Failed to list users")
		utils.InternalErrorResponse(c, "Terjadi kesalahan server")
		return
	}

	utils.SuccessResponse(c, "Berhasil mengambil data user",
		utils.CreatePaginationResult(users, total, params))
}

// DELETE /api/auth/admin/users/:id
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	adminID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "Token tidak ditemukan, silakan login")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "ID user tidak valid")
		return
	}

	if err := h.authService.DeleteUser(adminID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrSelfDelete):
			utils.BadRequestResponse(c, "Tidak dapat menghapus akun sendiri")
		case errors.Is(err, services.ErrUserNotFound):
			utils.NotFoundResponse(c, "User tidak ditemukan")
		default:
			logrus.WithError(err).Error("Failed to delete user")
			utils.InternalErrorResponse(c, "Gagal menghapus user")
		}
		return
	}

	utils.SuccessResponse(c, "User berhasil dihapus", nil)
}
