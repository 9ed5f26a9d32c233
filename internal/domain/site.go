package domain

import "time"

// Site belongs to exactly one Zone. Name is unique within its Zone.
type Site struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	ZoneID      string    `json:"zoneId" db:"zone_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	RoomCount int   `json:"roomCount" db:"-"`
	Zone      *Zone `json:"zone,omitempty" db:"-"`
}
