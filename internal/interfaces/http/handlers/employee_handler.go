package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"payportal.backend/internal/domain/entities"
	"payportal.backend/internal/interfaces/http/response"
	"payportal.backend/internal/usecases"
)

// EmployeeAuthService is the staff account surface used by EmployeeHandler
type EmployeeAuthService interface {
	Login(ctx context.Context, input *entities.EmployeeLoginInput) (*entities.AuthResponse, error)
	ResetPassword(ctx context.Context, input *entities.EmployeeResetPasswordInput) error
}

// EmployeeHandler handles employee account endpoints
type EmployeeHandler struct {
	employeeUsecase EmployeeAuthService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeUsecase EmployeeAuthService) *EmployeeHandler {
	return &EmployeeHandler{employeeUsecase: employeeUsecase}
}

// Login handles employee login
// POST /emp/emplogin
func (h *EmployeeHandler) Login(c *gin.Context) {
	var input entities.EmployeeLoginInput
	if !bindJSON(c, &input) {
		return
	}

	authResponse, err := h.employeeUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, authResponse)
}

// ForgotPassword sets a new employee password
// POST /emp/forgot-password
func (h *EmployeeHandler) ForgotPassword(c *gin.Context) {
	var input entities.EmployeeResetPasswordInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.employeeUsecase.ResetPassword(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, usecases.MsgPasswordReset)
}
