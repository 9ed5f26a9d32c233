package domain

import "time"

// Tenant belongs to exactly one TenantGroup. Name is unique within its group.
type Tenant struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   *string   `json:"description" db:"description"`
	TenantGroupID string    `json:"tenantGroupId" db:"tenant_group_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	Group *TenantGroup `json:"group,omitempty" db:"-"`
}
