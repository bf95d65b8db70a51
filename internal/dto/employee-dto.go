package dto

import "github.com/aarondl/null/v8"

type CreateEmployeeDTO struct {
	EmployeeID          int64       `json:"employee_id" validate:"required,gt=0"`
	Username            string      `json:"username" validate:"required,not_blank,max=100"`
	Email               string      `json:"email" validate:"required,email,max=255"`
	FirstName           string      `json:"first_name" validate:"required,not_blank,max=100"`
	LastName            string      `json:"last_name" validate:"required,not_blank,max=100"`
	UserTypeID          int64       `json:"user_type_id" validate:"required,gt=0"`
	HireDate            null.Time   `json:"hire_date"`
	TerminationDate     null.Time   `json:"termination_date"`
	TerminationReasonID null.Int64  `json:"termination_reason_id"`
	IsActive            *bool       `json:"is_active"`
	Address             *AddressDTO `json:"address" validate:"omitempty"`
}

type UpdateEmployeeDTO struct {
	Username            *string    `json:"username" validate:"omitempty,not_blank,max=100"`
	Email               *string    `json:"email" validate:"omitempty,email,max=255"`
	FirstName           *string    `json:"first_name" validate:"omitempty,not_blank,max=100"`
	LastName            *string    `json:"last_name" validate:"omitempty,not_blank,max=100"`
	UserTypeID          *int64     `json:"user_type_id" validate:"omitempty,gt=0"`
	HireDate            null.Time  `json:"hire_date"`
	TerminationDate     null.Time  `json:"termination_date"`
	TerminationReasonID null.Int64 `json:"termination_reason_id"`
	IsActive            *bool      `json:"is_active"`
}
