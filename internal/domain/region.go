package domain

import "time"

// Region is the top of the containment hierarchy. Name is unique globally.
type Region struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// ZoneCount is derived on list reads, never stored.
	ZoneCount int `json:"zoneCount" db:"-"`
}
