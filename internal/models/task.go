package models

import "time"

type ReminderStatus string

const (
	ReminderPending ReminderStatus = "PENDING"
	ReminderSent    ReminderStatus = "SENT"
)

// Task is a due-dated reminder tied to a lead. Each of the two pre-due
// offsets (day before, hour before) carries its own status so the sweep
// can fire them independently and exactly once each.
type Task struct {
	ID               uint64         `gorm:"primarykey" json:"id"`
	Name             string         `gorm:"type:varchar(255);not null" json:"name"`
	CustomerID       uint64         `gorm:"not null;index" json:"customer_id"`
	ActionID         *uint64        `json:"action_id"`
	SalesID          uint64         `gorm:"not null;index" json:"sales_id"`
	DueDate          time.Time      `gorm:"index" json:"due_date"`
	DayBeforeStatus  ReminderStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"day_before_status"`
	HourBeforeStatus ReminderStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"hour_before_status"`
	Notes            string         `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`

	// Relations
	Customer Lead     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Sales    Employee `gorm:"foreignKey:SalesID" json:"sales,omitempty"`
	Action   *Action  `gorm:"foreignKey:ActionID" json:"action,omitempty"`
}
