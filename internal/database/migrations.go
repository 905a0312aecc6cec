package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"leads", "idx_leads_sales_id", "sales_id"},
		{"leads", "idx_leads_created_at", "created_at"},

		{"actions", "idx_actions_customer_id", "customer_id"},
		{"actions", "idx_actions_sales_id", "sales_id"},
		{"actions", "idx_actions_unit_id", "unit_id"},

		{"tasks", "idx_tasks_customer_id", "customer_id"},
		{"tasks", "idx_tasks_sales_id", "sales_id"},
		{"tasks", "idx_tasks_due_date", "due_date"},

		{"units", "idx_units_project_id", "project_id"},
		{"units", "idx_units_status", "status"},

		{"fcm_tokens", "idx_fcm_tokens_employee_id", "employee_id"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
