package models

import "time"

// Project groups sellable units. Pics stores the uploaded image paths as
// a comma-joined string, matching the historical column layout.
type Project struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Location      string    `gorm:"type:varchar(255)" json:"location"`
	Type          string    `gorm:"type:varchar(50)" json:"type"`
	Pics          string    `gorm:"type:text" json:"pics"`
	UnitCount     int       `json:"unit_count"`
	SoldUnitCount int       `json:"sold_unit_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Units []Unit `gorm:"foreignKey:ProjectID" json:"units,omitempty"`
}
