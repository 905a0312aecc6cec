package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/estatecrm/backend/internal/errors"
	"github.com/estatecrm/backend/internal/logger"
	"github.com/estatecrm/backend/internal/services"
)

// WhatsAppHandler relays outbound messages to the external sending service.
type WhatsAppHandler struct {
	whatsapp *services.WhatsAppService
}

// NewWhatsAppHandler creates a new WhatsAppHandler.
func NewWhatsAppHandler(whatsapp *services.WhatsAppService) *WhatsAppHandler {
	return &WhatsAppHandler{
		whatsapp: whatsapp,
	}
}

// Send forwards the message and relays the upstream response as-is.
func (h *WhatsAppHandler) Send(c *gin.Context) {
	type SendRequest struct {
		PhoneNumber string `json:"phoneNumber" binding:"required"`
		Message     string `json:"message" binding:"required"`
		Media       string `json:"media"`
		Sales       string `json:"sales"`
	}

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "phoneNumber and message are required")
		return
	}

	status, body, err := h.whatsapp.Send(services.WhatsAppMessage{
		PhoneNumber: req.PhoneNumber,
		Message:     req.Message,
		Media:       req.Media,
		Sales:       req.Sales,
	})
	if err != nil {
		logger.Get().Error("whatsapp relay failed", zap.Error(err))
		apierrors.InternalError(c, "WhatsApp service unavailable")
		return
	}

	c.Data(status, "application/json", body)
}
