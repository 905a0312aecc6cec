package models

import "time"

// Action records a lead's pipeline transition. Rows are append-only in
// the business flow; past transitions are never rewritten.
type Action struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	CustomerID   uint64    `gorm:"not null;index" json:"customer_id"`
	SalesID      uint64    `gorm:"not null;index" json:"sales_id"`
	PrevState    string    `gorm:"type:varchar(100)" json:"prev_state"`
	PrevSubstate string    `gorm:"type:varchar(100)" json:"prev_substate"`
	NewState     string    `gorm:"type:varchar(100)" json:"new_state"`
	NewSubstate  string    `gorm:"type:varchar(100)" json:"new_substate"`
	ProjectID    *uint64   `json:"project_id"`
	UnitID       *uint64   `json:"unit_id"`
	Notes        string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Customer Lead     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Sales    Employee `gorm:"foreignKey:SalesID" json:"sales,omitempty"`
	Project  *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Unit     *Unit    `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
}
