package dto

import "github.com/estatecrm/backend/internal/models"

// EmployeeDTO represents an employee in API responses
type EmployeeDTO struct {
	ID     uint64              `json:"id"`
	Name   string              `json:"name"`
	Number string              `json:"number"`
	Role   models.EmployeeRole `json:"role"`
	Notes  string              `json:"notes,omitempty"`
}

// LoginResponse is the body returned by a successful login
type LoginResponse struct {
	Token    string      `json:"token"`
	Employee EmployeeDTO `json:"employee"`
}

// ToEmployeeDTO converts an Employee model to EmployeeDTO
func ToEmployeeDTO(employee models.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:     employee.ID,
		Name:   employee.Name,
		Number: employee.Number,
		Role:   employee.Role,
		Notes:  employee.Notes,
	}
}
