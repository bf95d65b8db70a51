package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Address is shared by locations, employees and districts; deleting an owner keeps it.
type Address struct {
	ID         uint64      `json:"id"`
	Street     string      `json:"street"`
	City       string      `json:"city"`
	State      string      `json:"state"`
	PostalCode string      `json:"postal_code"`
	Country    string      `json:"country"`
	Phone      null.String `json:"phone"`
	CreatedAt  time.Time   `json:"created_at"`
}
