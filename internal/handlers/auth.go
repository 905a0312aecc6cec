package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/estatecrm/backend/internal/dto"
	apierrors "github.com/estatecrm/backend/internal/errors"
	"github.com/estatecrm/backend/internal/metrics"
	"github.com/estatecrm/backend/internal/middleware"
	"github.com/estatecrm/backend/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login authenticates an employee by phone number and password and
// returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Number   string `json:"number" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	metrics.AuthAttemptsCounter.Inc()

	employee, token, err := h.authService.Login(req.Number, req.Password)
	if err != nil {
		metrics.AuthErrorsCounter.Inc()
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.Unauthorized(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:    token,
		Employee: dto.ToEmployeeDTO(*employee),
	})
}

// GetCurrentEmployee returns the authenticated employee.
func (h *AuthHandler) GetCurrentEmployee(c *gin.Context) {
	employeeID, exists := middleware.GetEmployeeID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	employee, err := h.authService.GetEmployee(employeeID)
	if err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*employee))
}
