package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/estatecrm/backend/internal/dto"
	apierrors "github.com/estatecrm/backend/internal/errors"
	"github.com/estatecrm/backend/internal/logger"
	"github.com/estatecrm/backend/internal/models"
	"github.com/estatecrm/backend/internal/repository"
)

// EmployeeHandler serves the admin-gated employee resource.
type EmployeeHandler struct {
	employeeRepo repository.EmployeeRepository
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(employeeRepo repository.EmployeeRepository) *EmployeeHandler {
	return &EmployeeHandler{
		employeeRepo: employeeRepo,
	}
}

// ListEmployees returns all non-deleted employees.
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	employees, err := h.employeeRepo.List()
	if err != nil {
		logger.Get().Error("failed to list employees", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	result := make([]dto.EmployeeDTO, len(employees))
	for i, e := range employees {
		result[i] = dto.ToEmployeeDTO(e)
	}
	c.JSON(http.StatusOK, result)
}

// GetEmployee returns one employee.
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	employee, err := h.employeeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Employee not found")
			return
		}
		logger.Get().Error("failed to get employee", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*employee))
}

// CreateEmployee registers a new employee with a hashed password.
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	type CreateRequest struct {
		Name     string              `json:"name" binding:"required"`
		Number   string              `json:"number" binding:"required"`
		Role     models.EmployeeRole `json:"role" binding:"required,oneof=ADMIN SALES MANAGER"`
		Notes    string              `json:"notes"`
		Password string              `json:"password" binding:"required,min=8"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	employee := &models.Employee{
		Name:         req.Name,
		Number:       req.Number,
		Role:         req.Role,
		Notes:        req.Notes,
		PasswordHash: string(hashed),
	}

	if err := h.employeeRepo.Create(employee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			apierrors.BadRequest(c, "An employee with this phone number already exists")
			return
		}
		logger.Get().Error("failed to create employee", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, dto.ToEmployeeDTO(*employee))
}

// UpdateEmployee applies a partial update.
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateRequest struct {
		Name     *string              `json:"name"`
		Number   *string              `json:"number"`
		Role     *models.EmployeeRole `json:"role" binding:"omitempty,oneof=ADMIN SALES MANAGER"`
		Notes    *string              `json:"notes"`
		Password *string              `json:"password" binding:"omitempty,min=8"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Number != nil {
		fields["number"] = *req.Number
	}
	if req.Role != nil {
		fields["role"] = *req.Role
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			apierrors.InternalError(c, "")
			return
		}
		fields["password_hash"] = string(hashed)
	}
	if len(fields) == 0 {
		apierrors.BadRequest(c, "No fields to update")
		return
	}

	employee, err := h.employeeRepo.Update(id, fields)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			apierrors.NotFound(c, "Employee not found")
		case errors.Is(err, gorm.ErrDuplicatedKey):
			apierrors.BadRequest(c, "An employee with this phone number already exists")
		default:
			logger.Get().Error("failed to update employee", zap.Uint64("id", id), zap.Error(err))
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*employee))
}

// DeleteEmployee soft-deletes an employee by flipping its role. Deleting
// a row that is already deleted reports not found.
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.employeeRepo.SoftDelete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Employee not found")
			return
		}
		logger.Get().Error("failed to delete employee", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}
