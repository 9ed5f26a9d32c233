package domain

import "time"

// HardwareType is a catalog master record (Server, Switch, Storage, ...).
// Name is unique globally.
type HardwareType struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Category    *string   `json:"category" db:"category"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// HardwareCount counts hardware reaching this type through its infos.
	HardwareCount int `json:"hardwareCount" db:"-"`
}
