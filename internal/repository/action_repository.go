package repository

import (
	"gorm.io/gorm"

	"github.com/estatecrm/backend/internal/database"
	"github.com/estatecrm/backend/internal/models"
	"github.com/estatecrm/backend/internal/utils"
)

// GormActionRepository is a GORM implementation of ActionRepository
type GormActionRepository struct {
	db *gorm.DB
}

// NewActionRepository creates a new ActionRepository
func NewActionRepository(db *gorm.DB) ActionRepository {
	return &GormActionRepository{db: db}
}

// Create creates a new action
func (r *GormActionRepository) Create(action *models.Action) error {
	return r.db.Create(action).Error
}

// FindByID finds an action by ID with optional preloading
func (r *GormActionRepository) FindByID(id uint64, preload ...string) (*models.Action, error) {
	var action models.Action
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&action, id).Error; err != nil {
		return nil, err
	}
	return &action, nil
}

// List pages through all actions, newest first
func (r *GormActionRepository) List(params utils.PaginationParams) ([]models.Action, error) {
	var actions []models.Action
	if err := r.db.Order("created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

// ListByCustomer retrieves the actions of one lead
func (r *GormActionRepository) ListByCustomer(customerID uint64) ([]models.Action, error) {
	return r.listWhere(map[string]interface{}{"customer_id": customerID})
}

// ListBySales retrieves the actions recorded by one sales employee
func (r *GormActionRepository) ListBySales(salesID uint64) ([]models.Action, error) {
	return r.listWhere(map[string]interface{}{"sales_id": salesID})
}

// ListByProject retrieves the actions linked to one project
func (r *GormActionRepository) ListByProject(projectID uint64) ([]models.Action, error) {
	return r.listWhere(map[string]interface{}{"project_id": projectID})
}

// ListByUnit retrieves the actions linked to one unit
func (r *GormActionRepository) ListByUnit(unitID uint64) ([]models.Action, error) {
	return r.listWhere(map[string]interface{}{"unit_id": unitID})
}

func (r *GormActionRepository) listWhere(cond map[string]interface{}) ([]models.Action, error) {
	var actions []models.Action
	if err := r.db.Where(cond).
		Order("created_at DESC").
		Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

// Update applies a partial update over the given fields. The pipeline
// flow never calls this; actions are append-only there.
func (r *GormActionRepository) Update(id uint64, fields map[string]interface{}) (*models.Action, error) {
	result := r.db.Model(&models.Action{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(id)
}

// Delete removes an action
func (r *GormActionRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.Action{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
