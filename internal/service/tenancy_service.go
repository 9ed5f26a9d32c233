package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/domain"
	"github.com/namenice/kamui/internal/models"
	"github.com/namenice/kamui/internal/repository"
)

// TenancyService handles TenantGroup and Tenant. Deleting a group takes its
// tenants down with it; deleting a tenant only releases the hardware it owns.
type TenancyService struct {
	repo   repository.TenancyRepository
	logger *zap.Logger
}

func NewTenancyService(repo repository.TenancyRepository, logger *zap.Logger) *TenancyService {
	return &TenancyService{repo: repo, logger: logger}
}

type CreateTenantGroupInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type UpdateTenantGroupInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CreateTenantInput struct {
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	TenantGroupID string  `json:"tenantGroupId"`
}

type UpdateTenantInput struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	TenantGroupID *string `json:"tenantGroupId"`
}

func (s *TenancyService) ListTenantGroups(ctx context.Context, f repository.TenantGroupFilter, opts repository.ListOptions) (*models.Page[*domain.TenantGroup], error) {
	opts = opts.Normalize()
	groups, total, err := s.repo.ListTenantGroups(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	return models.NewPage(groups, opts.Page, opts.Limit, total), nil
}

func (s *TenancyService) GetTenantGroup(ctx context.Context, id string) (*domain.TenantGroup, error) {
	return s.repo.GetTenantGroup(ctx, id)
}

func (s *TenancyService) CreateTenantGroup(ctx context.Context, in CreateTenantGroupInput) (*domain.TenantGroup, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("Tenant Group name is required")
	}
	taken, err := s.repo.TenantGroupNameTaken(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("Tenant Group name already taken")
	}
	group := &domain.TenantGroup{Name: name, Description: in.Description}
	if err := s.repo.CreateTenantGroup(ctx, group); err != nil {
		return nil, err
	}
	s.logger.Info("tenant group created", zap.String("tenant_group_id", group.ID))
	return group, nil
}

func (s *TenancyService) UpdateTenantGroup(ctx context.Context, id string, in UpdateTenantGroupInput) (*domain.TenantGroup, error) {
	group, err := s.repo.GetTenantGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("Tenant Group name is required")
		}
		taken, err := s.repo.TenantGroupNameTaken(ctx, name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.Conflict("Tenant Group name already taken")
		}
		group.Name = name
	}
	if in.Description != nil {
		group.Description = in.Description
	}
	if err := s.repo.UpdateTenantGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *TenancyService) DeleteTenantGroup(ctx context.Context, id string) error {
	if err := s.repo.DeleteTenantGroup(ctx, id); err != nil {
		return err
	}
	s.logger.Info("tenant group deleted with tenants", zap.String("tenant_group_id", id))
	return nil
}

func (s *TenancyService) ListTenants(ctx context.Context, f repository.TenantFilter, opts repository.ListOptions) (*models.Page[*domain.Tenant], error) {
	opts = opts.Normalize()
	tenants, total, err := s.repo.ListTenants(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	return models.NewPage(tenants, opts.Page, opts.Limit, total), nil
}

func (s *TenancyService) GetTenant(ctx context.Context, id string) (*domain.Tenant, error) {
	return s.repo.GetTenant(ctx, id)
}

func (s *TenancyService) CreateTenant(ctx context.Context, in CreateTenantInput) (*domain.Tenant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("Tenant name is required")
	}
	if in.TenantGroupID == "" {
		return nil, domain.Invalid("tenantGroupId is required")
	}
	if _, err := s.repo.GetTenantGroup(ctx, in.TenantGroupID); err != nil {
		return nil, err
	}
	taken, err := s.repo.TenantNameTaken(ctx, name, in.TenantGroupID, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("Tenant name already taken in this group")
	}
	tenant := &domain.Tenant{Name: name, Description: in.Description, TenantGroupID: in.TenantGroupID}
	if err := s.repo.CreateTenant(ctx, tenant); err != nil {
		return nil, err
	}
	s.logger.Info("tenant created", zap.String("tenant_id", tenant.ID), zap.String("tenant_group_id", tenant.TenantGroupID))
	return tenant, nil
}

func (s *TenancyService) UpdateTenant(ctx context.Context, id string, in UpdateTenantInput) (*domain.Tenant, error) {
	tenant, err := s.repo.GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.TenantGroupID != nil && *in.TenantGroupID != tenant.TenantGroupID {
		if _, err := s.repo.GetTenantGroup(ctx, *in.TenantGroupID); err != nil {
			return nil, err
		}
		tenant.TenantGroupID = *in.TenantGroupID
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("Tenant name is required")
		}
		tenant.Name = name
	}
	taken, err := s.repo.TenantNameTaken(ctx, tenant.Name, tenant.TenantGroupID, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("Tenant name already taken in this group")
	}
	if in.Description != nil {
		tenant.Description = in.Description
	}
	if err := s.repo.UpdateTenant(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// DeleteTenant releases the tenant's hardware (ownership goes back to
// unassigned) and removes the tenant.
func (s *TenancyService) DeleteTenant(ctx context.Context, id string) error {
	if err := s.repo.DeleteTenant(ctx, id); err != nil {
		return err
	}
	s.logger.Info("tenant deleted, hardware released", zap.String("tenant_id", id))
	return nil
}
