package repository

import (
	"gorm.io/gorm"

	"github.com/estatecrm/backend/internal/models"
)

// GormSubscriptionRepository is a GORM implementation of SubscriptionRepository
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// Create stores a push subscription. Always inserts: one row per
// subscribe call, so multiple devices accumulate per employee.
func (r *GormSubscriptionRepository) Create(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

// ListByEmployee retrieves every device subscription for one employee
func (r *GormSubscriptionRepository) ListByEmployee(employeeID uint64) ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := r.db.Where("employee_id = ?", employeeID).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// DeleteByEndpointFragment removes subscriptions whose endpoint ends with
// the given fragment. Used when the push service reports an endpoint gone.
func (r *GormSubscriptionRepository) DeleteByEndpointFragment(fragment string) error {
	return r.db.Where("endpoint LIKE ?", "%"+fragment).
		Delete(&models.Subscription{}).Error
}
