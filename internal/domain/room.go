package domain

import "time"

// Room belongs to exactly one Site. Name is unique within its Site.
type Room struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	SiteID      string    `json:"siteId" db:"site_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	RackCount int   `json:"rackCount" db:"-"`
	Site      *Site `json:"site,omitempty" db:"-"`
}
