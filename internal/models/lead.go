package models

import "time"

// Lead is a prospective customer tracked through the sales pipeline.
// State and Substate are free-form pipeline labels, not enforced enums.
type Lead struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Number         string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"number"`
	Source         string    `gorm:"type:varchar(100)" json:"source"`
	Address        string    `gorm:"type:varchar(255)" json:"address"`
	State          string    `gorm:"type:varchar(100)" json:"state"`
	Substate       string    `gorm:"type:varchar(100)" json:"substate"`
	SalesID        *uint64   `gorm:"index" json:"sales_id"`
	Budget         float64   `json:"budget"`
	Notes          string    `gorm:"type:text" json:"notes"`
	BySales        bool      `json:"by_sales"`
	NotificationID string    `gorm:"type:varchar(255)" json:"notification_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Sales   *Employee `gorm:"foreignKey:SalesID" json:"sales,omitempty"`
	Actions []Action  `gorm:"foreignKey:CustomerID" json:"actions,omitempty"`
	Tasks   []Task    `gorm:"foreignKey:CustomerID" json:"tasks,omitempty"`
}
