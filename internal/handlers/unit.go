package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apierrors "github.com/estatecrm/backend/internal/errors"
	"github.com/estatecrm/backend/internal/logger"
	"github.com/estatecrm/backend/internal/models"
	"github.com/estatecrm/backend/internal/repository"
	"github.com/estatecrm/backend/internal/services"
	"github.com/estatecrm/backend/internal/utils"
)

const unitMediaRoot = "units"

// UnitHandler serves the unit resource. Unit media lives in a per-unit
// folder derived from id and name; renaming the unit moves the folder.
type UnitHandler struct {
	unitRepo repository.UnitRepository
	media    *services.MediaStore
}

// NewUnitHandler creates a new UnitHandler.
func NewUnitHandler(unitRepo repository.UnitRepository, media *services.MediaStore) *UnitHandler {
	return &UnitHandler{
		unitRepo: unitRepo,
		media:    media,
	}
}

// ListUnits returns all units.
func (h *UnitHandler) ListUnits(c *gin.Context) {
	units, err := h.unitRepo.List()
	if err != nil {
		logger.Get().Error("failed to list units", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, units)
}

// ListUnitsByProject returns the units of one project.
func (h *UnitHandler) ListUnitsByProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	units, err := h.unitRepo.ListByProject(projectID)
	if err != nil {
		logger.Get().Error("failed to list units by project",
			zap.Uint64("project_id", projectID), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, units)
}

// GetUnit returns one unit.
func (h *UnitHandler) GetUnit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	unit, err := h.unitRepo.FindByID(id, "Project")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Unit not found")
			return
		}
		logger.Get().Error("failed to get unit", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, unit)
}

// CreateUnit creates a unit from multipart form data. Media files land
// in the unit's own folder, created after the row so the id is known.
func (h *UnitHandler) CreateUnit(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		apierrors.BadRequest(c, "name is required")
		return
	}
	projectID, err := strconv.ParseUint(c.PostForm("project_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project_id")
		return
	}
	area, _ := strconv.ParseFloat(c.PostForm("area"), 64)
	price, _ := strconv.ParseFloat(c.PostForm("price"), 64)

	unit := &models.Unit{
		ProjectID:    projectID,
		Name:         name,
		Area:         area,
		Price:        price,
		Notes:        c.PostForm("notes"),
		Status:       models.UnitStatusAvailable,
		PaymentTerms: c.PostForm("payment_terms"),
	}

	if err := h.unitRepo.Create(unit); err != nil {
		logger.Get().Error("failed to create unit", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	if form, err := c.MultipartForm(); err == nil {
		files := form.File["media"]
		if len(files) > 0 {
			subdir := filepath.Join(unitMediaRoot, utils.UnitFolder(unit.ID, unit.Name))
			stored, err := h.media.SaveFiles(files, subdir)
			if err != nil {
				logger.Get().Error("failed to store unit media",
					zap.Uint64("unit_id", unit.ID), zap.Error(err))
				apierrors.InternalError(c, "")
				return
			}
			unit, err = h.unitRepo.Update(unit.ID, map[string]interface{}{
				"media": strings.Join(stored, ","),
			})
			if err != nil {
				h.media.RemoveFiles(stored)
				logger.Get().Error("failed to attach unit media",
					zap.Uint64("unit_id", unit.ID), zap.Error(err))
				apierrors.InternalError(c, "")
				return
			}
		}
	}

	c.JSON(http.StatusCreated, unit)
}

// UpdateUnit applies a partial multipart update. A rename moves the
// unit's media folder and rewrites the stored paths.
func (h *UnitHandler) UpdateUnit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	unit, err := h.unitRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Unit not found")
			return
		}
		logger.Get().Error("failed to get unit", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	fields := map[string]interface{}{}
	media := splitPaths(unit.Media)
	oldFolder := filepath.Join(unitMediaRoot, utils.UnitFolder(unit.ID, unit.Name))
	folder := oldFolder

	if name, exists := c.GetPostForm("name"); exists && name != unit.Name {
		// The folder is moved only after the rest of the form validates,
		// and moved back if the row update fails.
		folder = filepath.Join(unitMediaRoot, utils.UnitFolder(unit.ID, name))
		for i, p := range media {
			media[i] = filepath.Join(folder, filepath.Base(p))
		}
		fields["name"] = name
		fields["media"] = strings.Join(media, ",")
	}

	for _, key := range []string{"notes", "payment_terms"} {
		if value, exists := c.GetPostForm(key); exists {
			fields[key] = value
		}
	}
	if value, exists := c.GetPostForm("area"); exists {
		area, err := strconv.ParseFloat(value, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid area")
			return
		}
		fields["area"] = area
	}
	if value, exists := c.GetPostForm("price"); exists {
		price, err := strconv.ParseFloat(value, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid price")
			return
		}
		fields["price"] = price
	}
	if value, exists := c.GetPostForm("status"); exists {
		status := models.UnitStatus(value)
		switch status {
		case models.UnitStatusAvailable, models.UnitStatusReserved, models.UnitStatusSold:
			fields["status"] = status
		default:
			apierrors.BadRequest(c, "Invalid status")
			return
		}
	}

	removed := splitPaths(c.PostForm("removedMedia"))
	removedSet := make(map[string]bool, len(removed))
	for _, p := range removed {
		removedSet[p] = true
	}

	if folder != oldFolder {
		if err := h.media.RenameDir(oldFolder, folder); err != nil {
			logger.Get().Error("failed to move unit media folder",
				zap.Uint64("unit_id", id), zap.Error(err))
			apierrors.InternalError(c, "")
			return
		}
	}

	var staged []string
	if form, err := c.MultipartForm(); err == nil {
		files := form.File["newMedia"]
		if len(files) > 0 {
			staged, err = h.media.SaveFiles(files, folder)
			if err != nil {
				if folder != oldFolder {
					h.media.RenameDir(folder, oldFolder)
				}
				logger.Get().Error("failed to store unit media",
					zap.Uint64("unit_id", id), zap.Error(err))
				apierrors.InternalError(c, "")
				return
			}
		}
	}

	if len(staged) > 0 || len(removed) > 0 {
		kept := media[:0]
		for _, p := range media {
			if !removedSet[p] {
				kept = append(kept, p)
			}
		}
		fields["media"] = strings.Join(append(kept, staged...), ",")
	}
	if len(fields) == 0 {
		apierrors.BadRequest(c, "No fields to update")
		return
	}

	updated, err := h.unitRepo.Update(id, fields)
	if err != nil {
		h.media.RemoveFiles(staged)
		if folder != oldFolder {
			h.media.RenameDir(folder, oldFolder)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Unit not found")
			return
		}
		logger.Get().Error("failed to update unit", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	h.media.RemoveFiles(removed)

	c.JSON(http.StatusOK, updated)
}

// DeleteUnit removes a unit and its media folder.
func (h *UnitHandler) DeleteUnit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	unit, err := h.unitRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Unit not found")
			return
		}
		logger.Get().Error("failed to get unit", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	if err := h.unitRepo.Delete(id); err != nil {
		logger.Get().Error("failed to delete unit", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	h.media.RemoveDir(filepath.Join(unitMediaRoot, utils.UnitFolder(unit.ID, unit.Name)))

	c.Status(http.StatusNoContent)
}
