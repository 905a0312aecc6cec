package repository

import (
	"gorm.io/gorm"

	"github.com/estatecrm/backend/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves all tasks ordered by due date
func (r *GormTaskRepository) List() ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Order("due_date ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByCustomer retrieves the tasks of one lead
func (r *GormTaskRepository) ListByCustomer(customerID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Where("customer_id = ?", customerID).
		Order("due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListBySales retrieves the tasks of one sales employee
func (r *GormTaskRepository) ListBySales(salesID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Where("sales_id = ?", salesID).
		Order("due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update applies a partial update over the given fields
func (r *GormTaskRepository) Update(id uint64, fields map[string]interface{}) (*models.Task, error) {
	result := r.db.Model(&models.Task{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(id)
}

// Delete removes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetReminderStatus persists one offset's status flag. field must be one
// of the two reminder status columns.
func (r *GormTaskRepository) SetReminderStatus(id uint64, field string, status models.ReminderStatus) error {
	if field != "day_before_status" && field != "hour_before_status" {
		return gorm.ErrInvalidField
	}
	return r.db.Model(&models.Task{}).
		Where("id = ?", id).
		Update(field, status).Error
}
