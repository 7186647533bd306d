package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"payportal.backend/internal/domain/entities"
	"payportal.backend/internal/interfaces/http/response"
	"payportal.backend/internal/usecases"
)

// AuthService is the customer account surface used by AuthHandler
type AuthService interface {
	Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error)
	Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) error
}

// AuthHandler handles customer account endpoints
type AuthHandler struct {
	authUsecase AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase AuthService) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// Register handles customer registration
// POST /user/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	if _, err := h.authUsecase.Register(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusCreated, usecases.MsgRegistered)
}

// Login handles customer login by username or account number
// POST /user/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	authResponse, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, authResponse)
}

// ForgotPassword sets a new password. No token is issued.
// POST /user/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input entities.ResetPasswordInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.authUsecase.ResetPassword(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, usecases.MsgPasswordReset)
}
