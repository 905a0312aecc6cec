package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/estatecrm/backend/internal/models"
)

// GormReportRepository is a GORM implementation of ReportRepository
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &GormReportRepository{db: db}
}

// SalesTotals aggregates sold units whose sale closed inside [start, end).
// The salesman variant attributes a sale through the closing action.
func (r *GormReportRepository) SalesTotals(start, end time.Time, salesID *uint64) (*SalesReport, error) {
	report := &SalesReport{}

	query := r.db.Model(&models.Unit{}).
		Select("COALESCE(SUM(units.price), 0) AS total_sales, COUNT(units.id) AS units_sold").
		Where("units.status = ?", models.UnitStatusSold).
		Where("units.sold_date >= ? AND units.sold_date < ?", start, end)

	if salesID != nil {
		closingActions := r.db.Model(&models.Action{}).
			Select("1").
			Where("actions.unit_id = units.id").
			Where("actions.sales_id = ?", *salesID).
			Where("actions.new_state = ?", "SOLD")
		query = query.Where("EXISTS (?)", closingActions)
	}

	if err := query.Scan(report).Error; err != nil {
		return nil, err
	}

	return report, nil
}
