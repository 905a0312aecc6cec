package repository

import (
	"gorm.io/gorm"

	"github.com/estatecrm/backend/internal/models"
)

// GormEmployeeRepository is a GORM implementation of EmployeeRepository
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// Create creates a new employee
func (r *GormEmployeeRepository) Create(employee *models.Employee) error {
	return r.db.Create(employee).Error
}

// FindByID finds a non-deleted employee by ID
func (r *GormEmployeeRepository) FindByID(id uint64) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.Where("id = ? AND role <> ?", id, models.RoleDeleted).
		First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindByNumber finds a non-deleted employee by phone number
func (r *GormEmployeeRepository) FindByNumber(number string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.Where("number = ? AND role <> ?", number, models.RoleDeleted).
		First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// List retrieves all non-deleted employees
func (r *GormEmployeeRepository) List() ([]models.Employee, error) {
	var employees []models.Employee
	if err := r.db.Where("role <> ?", models.RoleDeleted).
		Order("id ASC").
		Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// ListSales retrieves SALES employees in stable id order
func (r *GormEmployeeRepository) ListSales() ([]models.Employee, error) {
	var employees []models.Employee
	if err := r.db.Where("role = ?", models.RoleSales).
		Order("id ASC").
		Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// Update applies a partial update over the given fields
func (r *GormEmployeeRepository) Update(id uint64, fields map[string]interface{}) (*models.Employee, error) {
	result := r.db.Model(&models.Employee{}).
		Where("id = ? AND role <> ?", id, models.RoleDeleted).
		Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(id)
}

// SoftDelete marks the employee DELETED. A second delete on the same row
// matches nothing and reports not found.
func (r *GormEmployeeRepository) SoftDelete(id uint64) error {
	result := r.db.Model(&models.Employee{}).
		Where("id = ? AND role <> ?", id, models.RoleDeleted).
		Update("role", models.RoleDeleted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
