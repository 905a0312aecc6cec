package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/estatecrm/backend/internal/models"
)

// GormUnitRepository is a GORM implementation of UnitRepository
type GormUnitRepository struct {
	db *gorm.DB
}

// NewUnitRepository creates a new UnitRepository
func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &GormUnitRepository{db: db}
}

// Create creates a new unit
func (r *GormUnitRepository) Create(unit *models.Unit) error {
	return r.db.Create(unit).Error
}

// FindByID finds a unit by ID with optional preloading
func (r *GormUnitRepository) FindByID(id uint64, preload ...string) (*models.Unit, error) {
	var unit models.Unit
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&unit, id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

// List retrieves all units
func (r *GormUnitRepository) List() ([]models.Unit, error) {
	var units []models.Unit
	if err := r.db.Order("id ASC").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// ListByProject retrieves the units of one project
func (r *GormUnitRepository) ListByProject(projectID uint64) ([]models.Unit, error) {
	var units []models.Unit
	if err := r.db.Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// Update applies a partial update over the given fields
func (r *GormUnitRepository) Update(id uint64, fields map[string]interface{}) (*models.Unit, error) {
	result := r.db.Model(&models.Unit{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(id)
}

// Delete removes a unit
func (r *GormUnitRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.Unit{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkSold transitions the unit to SOLD with the given sale date
func (r *GormUnitRepository) MarkSold(id uint64, soldAt time.Time) error {
	result := r.db.Model(&models.Unit{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":    models.UnitStatusSold,
			"sold_date": soldAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
