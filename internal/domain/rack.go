package domain

import "time"

// Rack belongs to exactly one Room. Name is unique within its Room.
// UHeight is the declared capacity in rack units; it bounds hardware
// u-positions but placement collisions are not rejected automatically.
type Rack struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	UHeight     int       `json:"uHeight" db:"u_height"`
	RoomID      string    `json:"roomId" db:"room_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	HardwareCount int   `json:"hardwareCount" db:"-"`
	Room          *Room `json:"room,omitempty" db:"-"`
}

// PlacementConflict describes hardware overlapping a prospective U slot.
type PlacementConflict struct {
	HardwareID   string `json:"hardwareId"`
	HardwareName string `json:"hardwareName"`
	UPosition    int    `json:"uPosition"`
	UHeight      int    `json:"uHeight"`
}

// PlacementReport is the result of a rack slot check.
type PlacementReport struct {
	Fits        bool                `json:"fits"`
	OutOfBounds bool                `json:"outOfBounds"`
	Conflicts   []PlacementConflict `json:"conflicts"`
}
