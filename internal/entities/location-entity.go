package entities

import (
	"github.com/aarondl/null/v8"

	"hr-org-system/pkg/types"
)

type Location struct {
	LocationID        int64       `json:"location_id"`
	DistrictID        int64       `json:"district_id"`
	Name              string      `json:"name"`
	StoreNumber       null.String `json:"store_number"`
	ManagerEmployeeID null.Int64  `json:"manager_employee_id"`
	IsActive          bool        `json:"is_active"`
	AddressID         null.Int64  `json:"address_id"`

	Address *Address `json:"address,omitempty"`

	types.BaseEntity
}
