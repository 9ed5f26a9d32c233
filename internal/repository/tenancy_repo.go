package repository

import (
	"context"

	"github.com/namenice/kamui/internal/domain"
)

// TenancyRepository covers the ownership hierarchy TenantGroup -> Tenant.
// Deleting a group cascades to its tenants; deleting a tenant nullifies the
// tenant reference on hardware instead of deleting the hardware.
type TenancyRepository interface {
	ListTenantGroups(ctx context.Context, f TenantGroupFilter, opts ListOptions) ([]*domain.TenantGroup, int, error)
	GetTenantGroup(ctx context.Context, id string) (*domain.TenantGroup, error)
	CreateTenantGroup(ctx context.Context, group *domain.TenantGroup) error
	UpdateTenantGroup(ctx context.Context, group *domain.TenantGroup) error
	DeleteTenantGroup(ctx context.Context, id string) error
	TenantGroupNameTaken(ctx context.Context, name, excludeID string) (bool, error)

	ListTenants(ctx context.Context, f TenantFilter, opts ListOptions) ([]*domain.Tenant, int, error)
	GetTenant(ctx context.Context, id string) (*domain.Tenant, error)
	CreateTenant(ctx context.Context, tenant *domain.Tenant) error
	UpdateTenant(ctx context.Context, tenant *domain.Tenant) error
	DeleteTenant(ctx context.Context, id string) error
	TenantNameTaken(ctx context.Context, name, groupID, excludeID string) (bool, error)
}

// TenantGroupFilter narrows tenant-group lists.
type TenantGroupFilter struct {
	Search string
	Name   string
}

// TenantFilter narrows tenant lists.
type TenantFilter struct {
	Search        string
	Name          string
	TenantGroupID string
}
