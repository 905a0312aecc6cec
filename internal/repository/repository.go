package repository

import (
	"time"

	"github.com/estatecrm/backend/internal/models"
	"github.com/estatecrm/backend/internal/utils"
)

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	// Create creates a new employee
	Create(employee *models.Employee) error

	// FindByID finds a non-deleted employee by ID
	FindByID(id uint64) (*models.Employee, error)

	// FindByNumber finds a non-deleted employee by phone number
	FindByNumber(number string) (*models.Employee, error)

	// List retrieves all non-deleted employees
	List() ([]models.Employee, error)

	// ListSales retrieves SALES employees ordered by id ascending,
	// the stable order the round-robin rotation depends on
	ListSales() ([]models.Employee, error)

	// Update applies a partial update over the given fields
	Update(id uint64, fields map[string]interface{}) (*models.Employee, error)

	// SoftDelete flips the employee role to DELETED; the row is never
	// removed. Returns gorm.ErrRecordNotFound when no live row matched.
	SoftDelete(id uint64) error
}

// LeadRepository defines the interface for lead data access
type LeadRepository interface {
	Create(lead *models.Lead) error
	FindByID(id uint64, preload ...string) (*models.Lead, error)

	// List pages through all leads, newest first.
	List(params utils.PaginationParams) ([]models.Lead, error)
	ListBySales(salesID uint64) ([]models.Lead, error)
	Update(id uint64, fields map[string]interface{}) (*models.Lead, error)
	Delete(id uint64) error

	// Transfer reassigns a lead to another sales employee and rewrites
	// sales_id on every action and task referencing the lead, in one
	// transaction. Any failure rolls the whole reassignment back.
	Transfer(leadID, newSalesID uint64) (*models.Lead, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(project *models.Project) error
	FindByID(id uint64, preload ...string) (*models.Project, error)
	List() ([]models.Project, error)
	Update(id uint64, fields map[string]interface{}) (*models.Project, error)
	Delete(id uint64) error
	IncrementSoldCount(id uint64) error
}

// UnitRepository defines the interface for unit data access
type UnitRepository interface {
	Create(unit *models.Unit) error
	FindByID(id uint64, preload ...string) (*models.Unit, error)
	List() ([]models.Unit, error)
	ListByProject(projectID uint64) ([]models.Unit, error)
	Update(id uint64, fields map[string]interface{}) (*models.Unit, error)
	Delete(id uint64) error

	// MarkSold transitions the unit to SOLD with the given sale date.
	MarkSold(id uint64, soldAt time.Time) error
}

// ActionRepository defines the interface for action data access
type ActionRepository interface {
	Create(action *models.Action) error
	FindByID(id uint64, preload ...string) (*models.Action, error)

	// List pages through all actions, newest first.
	List(params utils.PaginationParams) ([]models.Action, error)
	ListByCustomer(customerID uint64) ([]models.Action, error)
	ListBySales(salesID uint64) ([]models.Action, error)
	ListByProject(projectID uint64) ([]models.Action, error)
	ListByUnit(unitID uint64) ([]models.Action, error)
	Update(id uint64, fields map[string]interface{}) (*models.Action, error)
	Delete(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(task *models.Task) error
	FindByID(id uint64, preload ...string) (*models.Task, error)
	List() ([]models.Task, error)
	ListByCustomer(customerID uint64) ([]models.Task, error)
	ListBySales(salesID uint64) ([]models.Task, error)
	Update(id uint64, fields map[string]interface{}) (*models.Task, error)
	Delete(id uint64) error

	// SetReminderStatus persists one offset's PENDING/SENT flag.
	SetReminderStatus(id uint64, field string, status models.ReminderStatus) error
}

// SubscriptionRepository defines the interface for push subscription data access
type SubscriptionRepository interface {
	Create(sub *models.Subscription) error
	ListByEmployee(employeeID uint64) ([]models.Subscription, error)

	// DeleteByEndpointFragment removes subscriptions whose endpoint ends
	// with the given fragment (the trailing path segment of a push URL).
	DeleteByEndpointFragment(fragment string) error
}

// SalesReport aggregates closed sales over a period.
type SalesReport struct {
	TotalSales float64 `json:"totalSales"`
	UnitsSold  int64   `json:"unitsSold"`
}

// ReportRepository defines the interface for report aggregates
type ReportRepository interface {
	// SalesTotals sums sold-unit prices and counts sold units whose sale
	// closed inside [start, end). A nil salesID aggregates all employees.
	SalesTotals(start, end time.Time, salesID *uint64) (*SalesReport, error)
}
