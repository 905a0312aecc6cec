package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apierrors "github.com/estatecrm/backend/internal/errors"
	"github.com/estatecrm/backend/internal/logger"
	"github.com/estatecrm/backend/internal/models"
	"github.com/estatecrm/backend/internal/repository"
	"github.com/estatecrm/backend/internal/utils"
)

// ActionHandler serves the action resource: the append-only audit trail
// of pipeline transitions.
type ActionHandler struct {
	actionRepo  repository.ActionRepository
	unitRepo    repository.UnitRepository
	projectRepo repository.ProjectRepository
}

// NewActionHandler creates a new ActionHandler.
func NewActionHandler(actionRepo repository.ActionRepository, unitRepo repository.UnitRepository, projectRepo repository.ProjectRepository) *ActionHandler {
	return &ActionHandler{
		actionRepo:  actionRepo,
		unitRepo:    unitRepo,
		projectRepo: projectRepo,
	}
}

// ListActions returns actions, newest first, paginated.
func (h *ActionHandler) ListActions(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	actions, err := h.actionRepo.List(params)
	if err != nil {
		logger.Get().Error("failed to list actions", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, actions)
}

// ListActionsByCustomer returns one lead's pipeline history.
func (h *ActionHandler) ListActionsByCustomer(c *gin.Context) {
	h.listFiltered(c, "customerId", h.actionRepo.ListByCustomer)
}

// ListActionsBySales returns the actions recorded by one sales employee.
func (h *ActionHandler) ListActionsBySales(c *gin.Context) {
	h.listFiltered(c, "salesId", h.actionRepo.ListBySales)
}

// ListActionsByProject returns the actions linked to one project.
func (h *ActionHandler) ListActionsByProject(c *gin.Context) {
	h.listFiltered(c, "projectId", h.actionRepo.ListByProject)
}

// ListActionsByUnit returns the actions linked to one unit.
func (h *ActionHandler) ListActionsByUnit(c *gin.Context) {
	h.listFiltered(c, "unitId", h.actionRepo.ListByUnit)
}

func (h *ActionHandler) listFiltered(c *gin.Context, param string, list func(uint64) ([]models.Action, error)) {
	id, ok := parseIDParam(c, param)
	if !ok {
		return
	}

	actions, err := list(id)
	if err != nil {
		logger.Get().Error("failed to list actions",
			zap.String("filter", param), zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, actions)
}

// GetAction returns one action.
func (h *ActionHandler) GetAction(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	action, err := h.actionRepo.FindByID(id, "Customer", "Sales")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Action not found")
			return
		}
		logger.Get().Error("failed to get action", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, action)
}

// CreateAction records a pipeline transition. A transition to SOLD with
// a linked unit marks the unit sold and bumps the project's sold count.
func (h *ActionHandler) CreateAction(c *gin.Context) {
	type CreateRequest struct {
		CustomerID   uint64  `json:"customer_id" binding:"required"`
		SalesID      uint64  `json:"sales_id" binding:"required"`
		PrevState    string  `json:"prev_state"`
		PrevSubstate string  `json:"prev_substate"`
		NewState     string  `json:"new_state" binding:"required"`
		NewSubstate  string  `json:"new_substate"`
		ProjectID    *uint64 `json:"project_id"`
		UnitID       *uint64 `json:"unit_id"`
		Notes        string  `json:"notes"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	action := &models.Action{
		CustomerID:   req.CustomerID,
		SalesID:      req.SalesID,
		PrevState:    req.PrevState,
		PrevSubstate: req.PrevSubstate,
		NewState:     req.NewState,
		NewSubstate:  req.NewSubstate,
		ProjectID:    req.ProjectID,
		UnitID:       req.UnitID,
		Notes:        req.Notes,
	}

	if err := h.actionRepo.Create(action); err != nil {
		logger.Get().Error("failed to create action", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	if req.NewState == "SOLD" && req.UnitID != nil {
		if err := h.unitRepo.MarkSold(*req.UnitID, time.Now()); err != nil {
			logger.Get().Error("failed to mark unit sold",
				zap.Uint64("unit_id", *req.UnitID), zap.Error(err))
		} else {
			projectID := req.ProjectID
			if projectID == nil {
				// The request may carry only the unit; the unit knows
				// its project.
				if unit, err := h.unitRepo.FindByID(*req.UnitID); err != nil {
					logger.Get().Error("failed to resolve sold unit's project",
						zap.Uint64("unit_id", *req.UnitID), zap.Error(err))
				} else {
					projectID = &unit.ProjectID
				}
			}
			if projectID != nil {
				if err := h.projectRepo.IncrementSoldCount(*projectID); err != nil {
					logger.Get().Error("failed to bump project sold count",
						zap.Uint64("project_id", *projectID), zap.Error(err))
				}
			}
		}
	}

	c.JSON(http.StatusCreated, action)
}

// UpdateAction applies a partial update. Exposed for corrections only;
// the pipeline flow never rewrites actions.
func (h *ActionHandler) UpdateAction(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateRequest struct {
		NewState    *string `json:"new_state"`
		NewSubstate *string `json:"new_substate"`
		Notes       *string `json:"notes"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	fields := map[string]interface{}{}
	if req.NewState != nil {
		fields["new_state"] = *req.NewState
	}
	if req.NewSubstate != nil {
		fields["new_substate"] = *req.NewSubstate
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if len(fields) == 0 {
		apierrors.BadRequest(c, "No fields to update")
		return
	}

	action, err := h.actionRepo.Update(id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Action not found")
			return
		}
		logger.Get().Error("failed to update action", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, action)
}

// DeleteAction removes an action.
func (h *ActionHandler) DeleteAction(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.actionRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Action not found")
			return
		}
		logger.Get().Error("failed to delete action", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}
