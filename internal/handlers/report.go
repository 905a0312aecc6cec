package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/estatecrm/backend/internal/errors"
	"github.com/estatecrm/backend/internal/logger"
	"github.com/estatecrm/backend/internal/middleware"
	"github.com/estatecrm/backend/internal/services"
)

// ReportHandler serves the sales report routes.
type ReportHandler struct {
	reports *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reports: reports,
	}
}

// AdminSales aggregates closed sales across all employees.
func (h *ReportHandler) AdminSales(c *gin.Context) {
	start, end, err := h.reports.ResolveRange(
		c.Query("period"), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	report, err := h.reports.AdminSales(start, end)
	if err != nil {
		logger.Get().Error("admin sales report failed", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, report)
}

// MySales aggregates closed sales attributed to the calling employee.
func (h *ReportHandler) MySales(c *gin.Context) {
	employeeID, exists := middleware.GetEmployeeID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	start, end, err := h.reports.ResolveRange(
		c.Query("period"), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidPeriod) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.BadRequest(c, "Invalid period")
		return
	}

	report, err := h.reports.SalesmanSales(start, end, employeeID)
	if err != nil {
		logger.Get().Error("salesman report failed",
			zap.Uint64("sales_id", employeeID), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, report)
}
