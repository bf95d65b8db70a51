package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type CreateAssignmentDTO struct {
	EmployeeID           int64      `json:"employee_id" validate:"required,gt=0"`
	LocationID           int64      `json:"location_id" validate:"required,gt=0"`
	JobTitleID           int64      `json:"job_title_id" validate:"required,gt=0"`
	SupervisorEmployeeID null.Int64 `json:"supervisor_employee_id"`
	AssignmentType       string     `json:"assignment_type" validate:"required,assignment_type"`
	StartDate            *time.Time `json:"start_date"`
	EndDate              null.Time  `json:"end_date"`
	IsCurrent            *bool      `json:"is_current"`
	IsPrimary            bool       `json:"is_primary"`
}

type UpdateAssignmentDTO struct {
	LocationID           *int64     `json:"location_id" validate:"omitempty,gt=0"`
	JobTitleID           *int64     `json:"job_title_id" validate:"omitempty,gt=0"`
	SupervisorEmployeeID null.Int64 `json:"supervisor_employee_id"`
	AssignmentType       *string    `json:"assignment_type" validate:"omitempty,assignment_type"`
	StartDate            *time.Time `json:"start_date"`
	EndDate              null.Time  `json:"end_date"`
	IsCurrent            *bool      `json:"is_current"`
	IsPrimary            *bool      `json:"is_primary"`
}
