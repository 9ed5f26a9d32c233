package domain

import "time"

// TenantGroup is the top of the ownership hierarchy. Name is unique globally.
type TenantGroup struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	TenantCount int `json:"tenantCount" db:"-"`
}
