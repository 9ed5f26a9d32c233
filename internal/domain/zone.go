package domain

import "time"

// Zone belongs to exactly one Region. Name is unique within its Region.
type Zone struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	RegionID    string    `json:"regionId" db:"region_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	SiteCount int     `json:"siteCount" db:"-"`
	Region    *Region `json:"region,omitempty" db:"-"`
}
