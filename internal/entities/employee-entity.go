package entities

import (
	"github.com/aarondl/null/v8"

	"hr-org-system/pkg/types"
)

type Employee struct {
	EmployeeID          int64       `json:"employee_id"`
	Username            string      `json:"username"`
	Email               string      `json:"email"`
	FirstName           string      `json:"first_name"`
	LastName            string      `json:"last_name"`
	UserTypeID          int64       `json:"user_type_id"`
	HireDate            null.Time   `json:"hire_date"`
	TerminationDate     null.Time   `json:"termination_date"`
	TerminationReasonID null.Int64  `json:"termination_reason_id"`
	AddressID           null.Int64  `json:"address_id"`
	IsActive            bool        `json:"is_active"`

	Address *Address `json:"address,omitempty"`

	// current primary assignment, filled by list queries
	PrimaryLocationID    null.Int64 `json:"primary_location_id"`
	PrimaryJobTitleID    null.Int64 `json:"primary_job_title_id"`
	SupervisorEmployeeID null.Int64 `json:"supervisor_employee_id"`

	types.BaseEntity
}
