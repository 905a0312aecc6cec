package handlers

import (
	"errors"
	"net/http"
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
)

const projectMediaDir = "projects"

// ProjectHandler serves the project resource. Create and update accept
// multipart form data with image files; image paths are stored as a
// comma-joined list on the row.
type ProjectHandler struct {
	projectRepo repository.ProjectRepository
	media       *services.MediaStore
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectRepo repository.ProjectRepository, media *services.MediaStore) *ProjectHandler {
	return &ProjectHandler{
		projectRepo: projectRepo,
		media:       media,
	}
}

// ListProjects returns all projects.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectRepo.List()
	if err != nil {
		logger.Get().Error("failed to list projects", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GetProject returns one project with its units.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectRepo.FindByID(id, "Units")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		logger.Get().Error("failed to get project", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, project)
}

// CreateProject creates a project from multipart form data, staging any
// uploaded images before the database write.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		apierrors.BadRequest(c, "name is required")
		return
	}
	unitCount, _ := strconv.Atoi(c.PostForm("unit_count"))

	var stored []string
	if form, err := c.MultipartForm(); err == nil {
		files := form.File["images"]
		if len(files) > 0 {
			stored, err = h.media.SaveFiles(files, projectMediaDir)
			if err != nil {
				logger.Get().Error("failed to store project images", zap.Error(err))
				apierrors.InternalError(c, "")
				return
			}
		}
	}

	project := &models.Project{
		Name:      name,
		Location:  c.PostForm("location"),
		Type:      c.PostForm("type"),
		Pics:      strings.Join(stored, ","),
		UnitCount: unitCount,
	}

	if err := h.projectRepo.Create(project); err != nil {
		// The row never landed; drop the staged files.
		h.media.RemoveFiles(stored)
		logger.Get().Error("failed to create project", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, project)
}

// UpdateProject applies a partial multipart update. New images arrive
// under newImages; removedPics lists stored paths to drop. Old files are
// unlinked only after the database write succeeds.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		logger.Get().Error("failed to get project", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	fields := map[string]interface{}{}
	for _, key := range []string{"name", "location", "type"} {
		if value, exists := c.GetPostForm(key); exists {
			fields[key] = value
		}
	}
	if value, exists := c.GetPostForm("unit_count"); exists {
		count, err := strconv.Atoi(value)
		if err != nil {
			apierrors.BadRequest(c, "Invalid unit_count")
			return
		}
		fields["unit_count"] = count
	}

	removed := splitPaths(c.PostForm("removedPics"))
	removedSet := make(map[string]bool, len(removed))
	for _, p := range removed {
		removedSet[p] = true
	}

	pics := splitPaths(project.Pics)
	kept := pics[:0]
	for _, p := range pics {
		if !removedSet[p] {
			kept = append(kept, p)
		}
	}

	var staged []string
	if form, err := c.MultipartForm(); err == nil {
		files := form.File["newImages"]
		if len(files) > 0 {
			staged, err = h.media.SaveFiles(files, projectMediaDir)
			if err != nil {
				logger.Get().Error("failed to store project images", zap.Error(err))
				apierrors.InternalError(c, "")
				return
			}
		}
	}

	if len(staged) > 0 || len(removed) > 0 {
		fields["pics"] = strings.Join(append(kept, staged...), ",")
	}
	if len(fields) == 0 {
		apierrors.BadRequest(c, "No fields to update")
		return
	}

	updated, err := h.projectRepo.Update(id, fields)
	if err != nil {
		h.media.RemoveFiles(staged)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		logger.Get().Error("failed to update project", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	// Row is committed; superseded files can go.
	h.media.RemoveFiles(removed)

	c.JSON(http.StatusOK, updated)
}

// DeleteProject removes a project, its units and its image files.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		logger.Get().Error("failed to get project", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	if err := h.projectRepo.Delete(id); err != nil {
		logger.Get().Error("failed to delete project", zap.Uint64("id", id), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	h.media.RemoveFiles(splitPaths(project.Pics))

	c.Status(http.StatusNoContent)
}

// splitPaths splits a comma-joined path list, dropping empty entries.
func splitPaths(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	result := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
