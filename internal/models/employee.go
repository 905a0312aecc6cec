package models

import "time"

type EmployeeRole string

const (
	RoleAdmin   EmployeeRole = "ADMIN"
	RoleSales   EmployeeRole = "SALES"
	RoleManager EmployeeRole = "MANAGER"
	// RoleDeleted marks a soft-deleted employee. The row stays so past
	// leads, actions and tasks keep a valid owner reference.
	RoleDeleted EmployeeRole = "DELETED"
)

type Employee struct {
	ID           uint64       `gorm:"primarykey" json:"id"`
	Name         string       `gorm:"type:varchar(255);not null" json:"name"`
	Number       string       `gorm:"type:varchar(20);uniqueIndex;not null" json:"number"`
	Role         EmployeeRole `gorm:"type:varchar(20);not null" json:"role"`
	Notes        string       `gorm:"type:text" json:"notes"`
	PasswordHash string       `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Relations
	Leads         []Lead         `gorm:"foreignKey:SalesID" json:"-"`
	Subscriptions []Subscription `gorm:"foreignKey:EmployeeID" json:"-"`
}
