package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apierrors "github.com/estatecrm/backend/internal/errors"
	"github.com/estatecrm/backend/internal/logger"
	"github.com/estatecrm/backend/internal/middleware"
	"github.com/estatecrm/backend/internal/models"
	"github.com/estatecrm/backend/internal/repository"
	"github.com/estatecrm/backend/internal/services"
	"github.com/estatecrm/backend/internal/utils"
)

// LeadHandler serves the lead resource, including round-robin assignment
// on create and owner transfer.
type LeadHandler struct {
	leadRepo   repository.LeadRepository
	assignment *services.AssignmentService
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(leadRepo repository.LeadRepository, assignment *services.AssignmentService) *LeadHandler {
	return &LeadHandler{
		leadRepo:   leadRepo,
		assignment: assignment,
	}
}

// ListLeads returns leads, newest first, paginated.
func (h *LeadHandler) ListLeads(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	leads, err := h.leadRepo.List(params)
	if err != nil {
		logger.Get().Error("failed to list leads", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, leads)
}

// ListLeadsBySalesperson returns the leads owned by one sales employee.
func (h *LeadHandler) ListLeadsBySalesperson(c *gin.Context) {
	salesID, ok := parseIDParam(c, "salesId")
	if !ok {
		return
	}

	leads, err := h.leadRepo.ListBySales(salesID)
	if err != nil {
		logger.Get().Error("failed to list leads by salesperson",
			zap.Uint64("sales_id", salesID), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, leads)
}

// GetLead returns one lead with its owner.
func (h *LeadHandler) GetLead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	lead, err := h.leadRepo.FindByID(id, "Sales")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Lead not found")
			return
		}
		logger.Get().Error("failed to get lead", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, lead)
}

// CreateLead registers a new lead. A lead created by a sales employee is
// self-owned; anyone else's lead gets the next employee in the rotation.
// The rotation can come up empty, in which case the lead goes out
// unassigned.
func (h *LeadHandler) CreateLead(c *gin.Context) {
	type CreateRequest struct {
		Name           string  `json:"name" binding:"required"`
		Number         string  `json:"number" binding:"required"`
		Source         string  `json:"source"`
		Address        string  `json:"address"`
		State          string  `json:"state"`
		Substate       string  `json:"substate"`
		Budget         float64 `json:"budget"`
		Notes          string  `json:"notes"`
		NotificationID string  `json:"notification_id"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	lead := &models.Lead{
		Name:           req.Name,
		Number:         req.Number,
		Source:         req.Source,
		Address:        req.Address,
		State:          req.State,
		Substate:       req.Substate,
		Budget:         req.Budget,
		Notes:          req.Notes,
		NotificationID: req.NotificationID,
	}

	callerID, _ := middleware.GetEmployeeID(c)
	callerRole, _ := middleware.GetRole(c)
	if callerRole == models.RoleSales {
		lead.SalesID = &callerID
		lead.BySales = true
	} else if id, ok := h.assignment.Next(); ok {
		lead.SalesID = &id
	}

	if err := h.leadRepo.Create(lead); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			apierrors.BadRequest(c, "A lead with this phone number already exists")
			return
		}
		logger.Get().Error("failed to create lead", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, lead)
}

// UpdateLead applies a partial update.
func (h *LeadHandler) UpdateLead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateRequest struct {
		Name           *string  `json:"name"`
		Number         *string  `json:"number"`
		Source         *string  `json:"source"`
		Address        *string  `json:"address"`
		State          *string  `json:"state"`
		Substate       *string  `json:"substate"`
		Budget         *float64 `json:"budget"`
		Notes          *string  `json:"notes"`
		NotificationID *string  `json:"notification_id"`
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
	if req.Source != nil {
		fields["source"] = *req.Source
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.State != nil {
		fields["state"] = *req.State
	}
	if req.Substate != nil {
		fields["substate"] = *req.Substate
	}
	if req.Budget != nil {
		fields["budget"] = *req.Budget
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.NotificationID != nil {
		fields["notification_id"] = *req.NotificationID
	}
	if len(fields) == 0 {
		apierrors.BadRequest(c, "No fields to update")
		return
	}

	lead, err := h.leadRepo.Update(id, fields)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			apierrors.NotFound(c, "Lead not found")
		case errors.Is(err, gorm.ErrDuplicatedKey):
			apierrors.BadRequest(c, "A lead with this phone number already exists")
		default:
			logger.Get().Error("failed to update lead", zap.Uint64("id", id), zap.Error(err))
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, lead)
}

// TransferLead reassigns a lead and its action/task history to another
// sales employee atomically.
func (h *LeadHandler) TransferLead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type TransferRequest struct {
		NewSalesID uint64 `json:"new_sales_id" binding:"required"`
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "new_sales_id is required")
		return
	}

	lead, err := h.leadRepo.Transfer(id, req.NewSalesID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Lead not found")
			return
		}
		logger.Get().Error("lead transfer failed",
			zap.Uint64("lead_id", id),
			zap.Uint64("new_sales_id", req.NewSalesID),
			zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, lead)
}

// DeleteLead hard-deletes a lead.
func (h *LeadHandler) DeleteLead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.leadRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Lead not found")
			return
		}
		logger.Get().Error("failed to delete lead", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}
