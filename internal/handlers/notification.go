package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/estatecrm/backend/internal/errors"
	"github.com/estatecrm/backend/internal/logger"
	"github.com/estatecrm/backend/internal/middleware"
	"github.com/estatecrm/backend/internal/models"
	"github.com/estatecrm/backend/internal/repository"
	"github.com/estatecrm/backend/internal/services"
)

// NotificationHandler serves push subscription and manual reminder routes.
type NotificationHandler struct {
	subRepo  repository.SubscriptionRepository
	notifier *services.NotificationService
	reminder *services.ReminderService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(subRepo repository.SubscriptionRepository, notifier *services.NotificationService, reminder *services.ReminderService) *NotificationHandler {
	return &NotificationHandler{
		subRepo:  subRepo,
		notifier: notifier,
		reminder: reminder,
	}
}

// Subscribe stores a device's push subscription for the authenticated
// employee and confirms it with a welcome notification. Every call
// inserts a new row; one employee accumulates one row per device.
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	employeeID, exists := middleware.GetEmployeeID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type SubscribeRequest struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid subscription")
		return
	}

	sub := &models.Subscription{
		EmployeeID: employeeID,
		Endpoint:   req.Endpoint,
		P256dh:     req.Keys.P256dh,
		Auth:       req.Keys.Auth,
	}

	if err := h.subRepo.Create(sub); err != nil {
		logger.Get().Error("failed to store subscription",
			zap.Uint64("employee_id", employeeID), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	h.notifier.SendWelcome(*sub)

	c.JSON(http.StatusCreated, gin.H{"message": "Subscribed"})
}

// TaskReminder runs one sweep pass immediately.
func (h *NotificationHandler) TaskReminder(c *gin.Context) {
	h.reminder.Sweep()
	c.JSON(http.StatusOK, gin.H{"message": "Reminder sweep completed"})
}

// TaskReminderByID fires one task's pending reminders immediately. An
// offset already marked SENT stays sent.
func (h *NotificationHandler) TaskReminderByID(c *gin.Context) {
	type ReminderRequest struct {
		TaskID uint64 `json:"task_id" binding:"required"`
	}

	var req ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "task_id is required")
		return
	}

	if err := h.reminder.RemindTask(req.TaskID); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		logger.Get().Error("manual reminder failed",
			zap.Uint64("task_id", req.TaskID), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder sent"})
}
