package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type AssignmentType string

const (
	AssignmentPrimary   AssignmentType = "PRIMARY"
	AssignmentSecondary AssignmentType = "SECONDARY"
	AssignmentTemporary AssignmentType = "TEMPORARY"
	AssignmentTraining  AssignmentType = "TRAINING"
)

// Assignment links an employee to a location and a job title.
// At most one assignment per employee may be current and primary at once.
type Assignment struct {
	ID                   uint64         `json:"id"`
	EmployeeID           int64          `json:"employee_id"`
	LocationID           int64          `json:"location_id"`
	JobTitleID           int64          `json:"job_title_id"`
	SupervisorEmployeeID null.Int64     `json:"supervisor_employee_id"`
	AssignmentType       AssignmentType `json:"assignment_type"`
	StartDate            time.Time      `json:"start_date"`
	EndDate              null.Time      `json:"end_date"`
	IsCurrent            bool           `json:"is_current"`
	IsPrimary            bool           `json:"is_primary"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

func (a Assignment) IsCurrentPrimary() bool {
	return a.IsCurrent && a.IsPrimary
}
