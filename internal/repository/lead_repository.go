package repository

import (
	"gorm.io/gorm"

	"github.com/estatecrm/backend/internal/database"
	"github.com/estatecrm/backend/internal/models"
	"github.com/estatecrm/backend/internal/utils"
)

// GormLeadRepository is a GORM implementation of LeadRepository
type GormLeadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new LeadRepository
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &GormLeadRepository{db: db}
}

// Create creates a new lead
func (r *GormLeadRepository) Create(lead *models.Lead) error {
	return r.db.Create(lead).Error
}

// FindByID finds a lead by ID with optional preloading
func (r *GormLeadRepository) FindByID(id uint64, preload ...string) (*models.Lead, error) {
	var lead models.Lead
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&lead, id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// List pages through all leads, newest first
func (r *GormLeadRepository) List(params utils.PaginationParams) ([]models.Lead, error) {
	var leads []models.Lead
	if err := r.db.Order("created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// ListBySales retrieves the leads owned by one sales employee
func (r *GormLeadRepository) ListBySales(salesID uint64) ([]models.Lead, error) {
	var leads []models.Lead
	if err := r.db.Where("sales_id = ?", salesID).
		Order("created_at DESC").
		Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// Update applies a partial update over the given fields
func (r *GormLeadRepository) Update(id uint64, fields map[string]interface{}) (*models.Lead, error) {
	result := r.db.Model(&models.Lead{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(id)
}

// Delete hard-deletes a lead
func (r *GormLeadRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.Lead{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Transfer reassigns the lead and its action/task history atomically.
func (r *GormLeadRepository) Transfer(leadID, newSalesID uint64) (*models.Lead, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Lead{}).
			Where("id = ?", leadID).
			Update("sales_id", newSalesID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Model(&models.Action{}).
			Where("customer_id = ?", leadID).
			Update("sales_id", newSalesID).Error; err != nil {
			return err
		}

		return tx.Model(&models.Task{}).
			Where("customer_id = ?", leadID).
			Update("sales_id", newSalesID).Error
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(leadID, "Sales")
}
