package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// Login POST /api/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "email and password are required")
		return
	}

	token, user, err := ctrl.AuthService.Login(req.Email, req.Password)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	logger.Log.Info("user logged in",
		zap.Uint("userId", user.ID),
		zap.String("role", string(user.Role)),
	)
	util.Success(c, gin.H{
		"token": token,
		"user":  user,
	})
}

// Me GET /api/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	user, err := ctrl.AuthService.GetCurrentUser(claims)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, user)
}

// ChangePassword PUT /api/auth/password
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "currentPassword and newPassword (min 6 chars) are required")
		return
	}

	claims := util.GetUserFromContext(c)
	if err := ctrl.AuthService.ChangePassword(claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, gin.H{"message": "password updated"})
}
