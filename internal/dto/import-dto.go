package dto

import (
	"fmt"

	"github.com/aarondl/null/v8"
)

type ImportEntityType string

const (
	ImportLocations ImportEntityType = "locations"
	ImportEmployees ImportEntityType = "employees"
)

func (t ImportEntityType) Valid() bool {
	return t == ImportLocations || t == ImportEmployees
}

// ImportMode decides what happens to a row whose primary key already exists.
type ImportMode string

const (
	ImportModeInsert ImportMode = "insert"
	ImportModeSkip   ImportMode = "skip"
)

func (m ImportMode) Valid() bool {
	return m == ImportModeInsert || m == ImportModeSkip
}

// ImportResult is the per-request tally of an import run.
type ImportResult struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

func NewImportResult() *ImportResult {
	return &ImportResult{Errors: []string{}}
}

// Fail records a failed row, prefixed with its natural key.
func (r *ImportResult) Fail(key string, err error) {
	r.Failed++
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", key, err))
}

// Warn records a message without failing the row.
func (r *ImportResult) Warn(key string, msg string) {
	r.Errors = append(r.Errors, fmt.Sprintf("%s: warning: %s", key, msg))
}

type ImportResponseDTO struct {
	Message string        `json:"message"`
	Details *ImportResult `json:"details"`
}

type ImportErrorDetails struct {
	Errors []string `json:"errors"`
}

type ImportErrorResponseDTO struct {
	Error   string             `json:"error"`
	Details ImportErrorDetails `json:"details"`
}

// LocationImportRow is one parsed row of a locations file.
type LocationImportRow struct {
	LocationID        null.Int64  `csv:"location_id" validate:"required"`
	DistrictID        null.Int64  `csv:"district_id" validate:"required"`
	Name              null.String `csv:"name" validate:"required,not_blank"`
	StoreNumber       null.String `csv:"store_number"`
	ManagerEmployeeID null.Int64  `csv:"manager_employee_id"`
	IsActive          null.Bool   `csv:"is_active"`

	AddressImportFields
}

// EmployeeImportRow is one parsed row of an employees file.
type EmployeeImportRow struct {
	EmployeeID           null.Int64  `csv:"employee_id" validate:"required"`
	Username             null.String `csv:"username" validate:"required,not_blank"`
	Email                null.String `csv:"email" validate:"required,not_blank"`
	FirstName            null.String `csv:"first_name" validate:"required,not_blank"`
	LastName             null.String `csv:"last_name" validate:"required,not_blank"`
	UserTypeID           null.Int64  `csv:"user_type_id"`
	HireDate             null.Time   `csv:"hire_date"`
	TerminationDate      null.Time   `csv:"termination_date"`
	TerminationReasonID  null.Int64  `csv:"termination_reason_id"`
	IsActive             null.Bool   `csv:"is_active"`
	LocationID           null.Int64  `csv:"location_id"`
	JobTitleID           null.Int64  `csv:"job_title_id"`
	SupervisorEmployeeID null.Int64  `csv:"supervisor_employee_id"`

	AddressImportFields
}

type AddressImportFields struct {
	Street     null.String `csv:"street"`
	City       null.String `csv:"city"`
	State      null.String `csv:"state"`
	PostalCode null.String `csv:"postal_code"`
	Country    null.String `csv:"country"`
	Phone      null.String `csv:"phone"`
}

// Complete reports whether every mandatory address part is present.
func (a AddressImportFields) Complete() bool {
	return a.Street.Valid && a.City.Valid && a.State.Valid && a.PostalCode.Valid
}
