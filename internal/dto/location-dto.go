package dto

import "github.com/aarondl/null/v8"

type AddressDTO struct {
	Street     string      `json:"street" validate:"required,not_blank"`
	City       string      `json:"city" validate:"required,not_blank"`
	State      string      `json:"state" validate:"required,not_blank"`
	PostalCode string      `json:"postal_code" validate:"required,not_blank"`
	Country    string      `json:"country" validate:"omitempty,max=80"`
	Phone      null.String `json:"phone" validate:"omitempty,max=40"`
}

type CreateLocationDTO struct {
	LocationID        int64       `json:"location_id" validate:"required,gt=0"`
	DistrictID        int64       `json:"district_id" validate:"required,gt=0"`
	Name              string      `json:"name" validate:"required,not_blank,max=255"`
	StoreNumber       null.String `json:"store_number" validate:"omitempty,max=50"`
	ManagerEmployeeID null.Int64  `json:"manager_employee_id"`
	IsActive          *bool       `json:"is_active"`
	Address           *AddressDTO `json:"address" validate:"omitempty"`
}

type UpdateLocationDTO struct {
	DistrictID        *int64      `json:"district_id" validate:"omitempty,gt=0"`
	Name              *string     `json:"name" validate:"omitempty,not_blank,max=255"`
	StoreNumber       null.String `json:"store_number" validate:"omitempty,max=50"`
	ManagerEmployeeID null.Int64  `json:"manager_employee_id"`
	IsActive          *bool       `json:"is_active"`
}
