package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/domain"
	"github.com/namenice/kamui/internal/models"
	"github.com/namenice/kamui/internal/repository"
)

// CatalogService handles the hardware catalog masters HardwareType and
// HardwareInfo. Both delete edges restrict: a master stays as long as
// anything references it, and the error carries the dependent count.
type CatalogService struct {
	repo   repository.CatalogRepository
	logger *zap.Logger
}

func NewCatalogService(repo repository.CatalogRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

type CreateHardwareTypeInput struct {
	Name        string  `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

type UpdateHardwareTypeInput struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

type CreateHardwareInfoInput struct {
	Manufacturer   string `json:"manufacturer"`
	Model          string `json:"model"`
	Height         int    `json:"height"`
	HardwareTypeID string `json:"hardwareTypeId"`
}

type UpdateHardwareInfoInput struct {
	Manufacturer   *string `json:"manufacturer"`
	Model          *string `json:"model"`
	Height         *int    `json:"height"`
	HardwareTypeID *string `json:"hardwareTypeId"`
}

func (s *CatalogService) ListHardwareTypes(ctx context.Context, f repository.HardwareTypeFilter, opts repository.ListOptions) (*models.Page[*domain.HardwareType], error) {
	opts = opts.Normalize()
	types, total, err := s.repo.ListHardwareTypes(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	return models.NewPage(types, opts.Page, opts.Limit, total), nil
}

func (s *CatalogService) GetHardwareType(ctx context.Context, id string) (*domain.HardwareType, error) {
	return s.repo.GetHardwareType(ctx, id)
}

func (s *CatalogService) CreateHardwareType(ctx context.Context, in CreateHardwareTypeInput) (*domain.HardwareType, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("Hardware Type name is required")
	}
	taken, err := s.repo.HardwareTypeNameTaken(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("Hardware Type name already exists")
	}
	t := &domain.HardwareType{Name: name, Category: in.Category, Description: in.Description}
	if err := s.repo.CreateHardwareType(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("hardware type created", zap.String("hardware_type_id", t.ID), zap.String("name", t.Name))
	return t, nil
}

func (s *CatalogService) UpdateHardwareType(ctx context.Context, id string, in UpdateHardwareTypeInput) (*domain.HardwareType, error) {
	t, err := s.repo.GetHardwareType(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("Hardware Type name is required")
		}
		taken, err := s.repo.HardwareTypeNameTaken(ctx, name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.Conflict("Hardware Type name already exists")
		}
		t.Name = name
	}
	if in.Category != nil {
		t.Category = in.Category
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	if err := s.repo.UpdateHardwareType(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// CanDelete reports whether the catalog entity may be deleted and how many
// dependents currently block it. kind is "hardwareType" or "hardwareInfo".
func (s *CatalogService) CanDelete(ctx context.Context, kind, id string) (bool, int, error) {
	switch kind {
	case "hardwareType":
		if _, err := s.repo.GetHardwareType(ctx, id); err != nil {
			return false, 0, err
		}
		if PolicyBetween("hardwareType", "hardwareInfo") != PolicyRestrict {
			return true, 0, nil
		}
		n, err := s.repo.CountInfosByType(ctx, id)
		if err != nil {
			return false, 0, err
		}
		return n == 0, n, nil
	case "hardwareInfo":
		if _, err := s.repo.GetHardwareInfo(ctx, id); err != nil {
			return false, 0, err
		}
		if PolicyBetween("hardwareInfo", "hardware") != PolicyRestrict {
			return true, 0, nil
		}
		n, err := s.repo.CountHardwareByInfo(ctx, id)
		if err != nil {
			return false, 0, err
		}
		return n == 0, n, nil
	default:
		return false, 0, domain.Invalid("unknown kind: " + kind)
	}
}

// DeleteHardwareType refuses while hardware models still reference the type.
func (s *CatalogService) DeleteHardwareType(ctx context.Context, id string) error {
	ok, n, err := s.CanDelete(ctx, "hardwareType", id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.RestrictedDelete(n, "Cannot delete. This type is used by %d hardware model(s).", n)
	}
	return s.repo.DeleteHardwareType(ctx, id)
}

func (s *CatalogService) ListHardwareInfos(ctx context.Context, f repository.HardwareInfoFilter, opts repository.ListOptions) (*models.Page[*domain.HardwareInfo], error) {
	opts = opts.Normalize()
	infos, total, err := s.repo.ListHardwareInfos(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	return models.NewPage(infos, opts.Page, opts.Limit, total), nil
}

func (s *CatalogService) GetHardwareInfo(ctx context.Context, id string) (*domain.HardwareInfo, error) {
	return s.repo.GetHardwareInfo(ctx, id)
}

func (s *CatalogService) CreateHardwareInfo(ctx context.Context, in CreateHardwareInfoInput) (*domain.HardwareInfo, error) {
	manufacturer := strings.TrimSpace(in.Manufacturer)
	model := strings.TrimSpace(in.Model)
	if manufacturer == "" || model == "" {
		return nil, domain.Invalid("manufacturer and model are required")
	}
	if in.Height <= 0 {
		return nil, domain.Invalid("height must be positive")
	}
	if in.HardwareTypeID == "" {
		return nil, domain.Invalid("hardwareTypeId is required")
	}
	if _, err := s.repo.GetHardwareType(ctx, in.HardwareTypeID); err != nil {
		return nil, err
	}
	taken, err := s.repo.ModelTaken(ctx, manufacturer, model, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("This Manufacturer/Model combination already exists")
	}
	info := &domain.HardwareInfo{
		Manufacturer:   manufacturer,
		Model:          model,
		Height:         in.Height,
		HardwareTypeID: in.HardwareTypeID,
	}
	if err := s.repo.CreateHardwareInfo(ctx, info); err != nil {
		return nil, err
	}
	s.logger.Info("hardware info created",
		zap.String("hardware_info_id", info.ID),
		zap.String("manufacturer", info.Manufacturer),
		zap.String("model", info.Model))
	return info, nil
}

func (s *CatalogService) UpdateHardwareInfo(ctx context.Context, id string, in UpdateHardwareInfoInput) (*domain.HardwareInfo, error) {
	info, err := s.repo.GetHardwareInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.HardwareTypeID != nil && *in.HardwareTypeID != info.HardwareTypeID {
		if _, err := s.repo.GetHardwareType(ctx, *in.HardwareTypeID); err != nil {
			return nil, err
		}
		info.HardwareTypeID = *in.HardwareTypeID
	}
	if in.Manufacturer != nil {
		m := strings.TrimSpace(*in.Manufacturer)
		if m == "" {
			return nil, domain.Invalid("manufacturer is required")
		}
		info.Manufacturer = m
	}
	if in.Model != nil {
		m := strings.TrimSpace(*in.Model)
		if m == "" {
			return nil, domain.Invalid("model is required")
		}
		info.Model = m
	}
	taken, err := s.repo.ModelTaken(ctx, info.Manufacturer, info.Model, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("This Manufacturer/Model combination already exists")
	}
	if in.Height != nil {
		if *in.Height <= 0 {
			return nil, domain.Invalid("height must be positive")
		}
		info.Height = *in.Height
	}
	if err := s.repo.UpdateHardwareInfo(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

// DeleteHardwareInfo refuses while hardware still references the model.
func (s *CatalogService) DeleteHardwareInfo(ctx context.Context, id string) error {
	ok, n, err := s.CanDelete(ctx, "hardwareInfo", id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.RestrictedDelete(n, "Cannot delete. This model is used by %d hardware(s).", n)
	}
	return s.repo.DeleteHardwareInfo(ctx, id)
}
