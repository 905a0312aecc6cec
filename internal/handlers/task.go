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
)

// TaskHandler serves the task resource: due-dated reminders tied to leads.
type TaskHandler struct {
	taskRepo repository.TaskRepository
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskRepo repository.TaskRepository) *TaskHandler {
	return &TaskHandler{
		taskRepo: taskRepo,
	}
}

// ListTasks returns all tasks ordered by due date.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskRepo.List()
	if err != nil {
		logger.Get().Error("failed to list tasks", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// ListTasksByCustomer returns one lead's tasks.
func (h *TaskHandler) ListTasksByCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}

	tasks, err := h.taskRepo.ListByCustomer(id)
	if err != nil {
		logger.Get().Error("failed to list tasks by customer",
			zap.Uint64("customer_id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// ListTasksBySales returns one sales employee's tasks.
func (h *TaskHandler) ListTasksBySales(c *gin.Context) {
	id, ok := parseIDParam(c, "salesId")
	if !ok {
		return
	}

	tasks, err := h.taskRepo.ListBySales(id)
	if err != nil {
		logger.Get().Error("failed to list tasks by sales",
			zap.Uint64("sales_id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTask returns one task.
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskRepo.FindByID(id, "Customer")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		logger.Get().Error("failed to get task", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask creates a reminder. Both offsets start PENDING.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateRequest struct {
		Name       string    `json:"name" binding:"required"`
		CustomerID uint64    `json:"customer_id" binding:"required"`
		ActionID   *uint64   `json:"action_id"`
		SalesID    uint64    `json:"sales_id" binding:"required"`
		DueDate    time.Time `json:"due_date" binding:"required"`
		Notes      string    `json:"notes"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task := &models.Task{
		Name:             req.Name,
		CustomerID:       req.CustomerID,
		ActionID:         req.ActionID,
		SalesID:          req.SalesID,
		DueDate:          req.DueDate,
		DayBeforeStatus:  models.ReminderPending,
		HourBeforeStatus: models.ReminderPending,
		Notes:            req.Notes,
	}

	if err := h.taskRepo.Create(task); err != nil {
		logger.Get().Error("failed to create task", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTask applies a partial update. Moving the due date resets both
// reminder offsets so the sweep fires them again for the new time.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateRequest struct {
		Name    *string    `json:"name"`
		DueDate *time.Time `json:"due_date"`
		Notes   *string    `json:"notes"`
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
	if req.DueDate != nil {
		fields["due_date"] = *req.DueDate
		fields["day_before_status"] = models.ReminderPending
		fields["hour_before_status"] = models.ReminderPending
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if len(fields) == 0 {
		apierrors.BadRequest(c, "No fields to update")
		return
	}

	task, err := h.taskRepo.Update(id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		logger.Get().Error("failed to update task", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		logger.Get().Error("failed to delete task", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}
