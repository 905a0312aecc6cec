package models

import "time"

// Subscription is one push endpoint for one device. Rows are append-only:
// every subscribe call inserts, so an employee with several devices has
// several rows. Stale endpoints are removed when the push service reports
// them gone.
type Subscription struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	EmployeeID uint64    `gorm:"not null;index" json:"employee_id"`
	Endpoint   string    `gorm:"type:text;not null" json:"endpoint"`
	P256dh     string    `gorm:"type:varchar(255);not null" json:"p256dh"`
	Auth       string    `gorm:"type:varchar(255);not null" json:"auth"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Employee Employee `gorm:"foreignKey:EmployeeID" json:"-"`
}

// TableName keeps the table the frontend was built against.
func (Subscription) TableName() string {
	return "fcm_tokens"
}
