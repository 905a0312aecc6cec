package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/estatecrm/backend/internal/database"
	"github.com/estatecrm/backend/internal/models"
	"github.com/estatecrm/backend/internal/repository"
	"github.com/estatecrm/backend/internal/services"
	"github.com/estatecrm/backend/internal/utils"
)

type unitTestEnv struct {
	db       *gorm.DB
	media    *services.MediaStore
	unitRepo repository.UnitRepository
	router   *gin.Engine
}

func setupUnitTestEnv(t *testing.T) unitTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Project{}, &models.Unit{}))

	database.SetDB(db)

	media := services.NewMediaStore(t.TempDir())
	unitRepo := repository.NewUnitRepository(db)
	handler := NewUnitHandler(unitRepo, media)

	router := gin.New()
	router.POST("/api/units", handler.CreateUnit)
	router.PATCH("/api/units/:id", handler.UpdateUnit)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return unitTestEnv{db: db, media: media, unitRepo: unitRepo, router: router}
}

// seedUnitWithMedia creates a unit row with one stored media file on disk.
func (env unitTestEnv) seedUnitWithMedia(t *testing.T, name string) *models.Unit {
	t.Helper()

	unit := &models.Unit{
		ProjectID: 1,
		Name:      name,
		Status:    models.UnitStatusAvailable,
	}
	require.NoError(t, env.db.Create(unit).Error)

	folder := filepath.Join(unitMediaRoot, utils.UnitFolder(unit.ID, unit.Name))
	require.NoError(t, os.MkdirAll(filepath.Join(env.media.BaseDir(), folder), 0o755))
	stored := filepath.Join(folder, "pic.jpg")
	require.NoError(t, os.WriteFile(filepath.Join(env.media.BaseDir(), stored), []byte("pic"), 0o644))

	unit.Media = stored
	require.NoError(t, env.db.Model(unit).Update("media", stored).Error)
	return unit
}

func TestUnitHandler_RenameMovesMediaFolder(t *testing.T) {
	env := setupUnitTestEnv(t)
	unit := env.seedUnitWithMedia(t, "A-101")

	oldPath := unit.Media
	body, contentType := multipartBody(t, map[string]string{"name": "B-202"}, "", nil)
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/units/%d", unit.ID), body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Unit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, "B-202", updated.Name)

	newFolder := filepath.Join(unitMediaRoot, utils.UnitFolder(unit.ID, "B-202"))
	require.True(t, strings.HasPrefix(updated.Media, newFolder+string(filepath.Separator)))
	require.True(t, env.media.Exists(updated.Media))
	require.False(t, env.media.Exists(oldPath))
}

// failingUnitRepo makes every row update fail, standing in for a lost
// database connection.
type failingUnitRepo struct {
	repository.UnitRepository
}

func (failingUnitRepo) Update(id uint64, fields map[string]interface{}) (*models.Unit, error) {
	return nil, gorm.ErrInvalidData
}

func TestUnitHandler_RenameRolledBackWhenUpdateFails(t *testing.T) {
	env := setupUnitTestEnv(t)
	unit := env.seedUnitWithMedia(t, "A-101")

	handler := NewUnitHandler(failingUnitRepo{env.unitRepo}, env.media)
	router := gin.New()
	router.PATCH("/api/units/:id", handler.UpdateUnit)

	body, contentType := multipartBody(t, map[string]string{"name": "B-202"},
		"newMedia", []string{"extra.jpg"})
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/units/%d", unit.ID), body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	// The media folder stays where the stored paths point, and the file
	// staged for the failed update is gone.
	require.True(t, env.media.Exists(unit.Media))
	newFolder := filepath.Join(env.media.BaseDir(), unitMediaRoot, utils.UnitFolder(unit.ID, "B-202"))
	_, err := os.Stat(newFolder)
	require.True(t, os.IsNotExist(err))
}
