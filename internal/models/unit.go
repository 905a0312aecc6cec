package models

import "time"

type UnitStatus string

const (
	UnitStatusAvailable UnitStatus = "AVAILABLE"
	UnitStatusReserved  UnitStatus = "RESERVED"
	UnitStatusSold      UnitStatus = "SOLD"
)

type Unit struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	ProjectID    uint64     `gorm:"not null;index" json:"project_id"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Area         float64    `json:"area"`
	Price        float64    `json:"price"`
	Notes        string     `gorm:"type:text" json:"notes"`
	Status       UnitStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE'" json:"status"`
	SoldDate     *time.Time `json:"sold_date"`
	PaymentTerms string     `gorm:"type:text" json:"payment_terms"`
	Media        string     `gorm:"type:text" json:"media"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
