// File: /controllers/auth_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reabastece-api/apperrors"
	"reabastece-api/models"
	"reabastece-api/services"
	"reabastece-api/utils"
)

type AuthController struct {
	auth         *services.AuthService
	emailService *services.EmailService
	log          *zap.Logger
}

func NewAuthController(auth *services.AuthService, emailService *services.EmailService, log *zap.Logger) *AuthController {
	return &AuthController{
		auth:         auth,
		emailService: emailService,
		log:          log,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendAppError(c, apperrors.NewBadRequestError(err))
		return
	}

	user, err := ac.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	if ac.emailService != nil {
		if err := ac.emailService.SendWelcomeEmail(user.Email, user.Name); err != nil {
			// The account exists either way.
			ac.log.Warn("failed to send welcome email", zap.String("user_id", user.ID), zap.Error(err))
		}
	}

	utils.SendCreated(c, "Registration successful", user)
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendAppError(c, apperrors.NewBadRequestError(err))
		return
	}

	token, user, err := ac.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		User:  *user,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	// Tokens are stateless; the client drops its copy.
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.auth.FindUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
