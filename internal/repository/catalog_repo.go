package repository

import (
	"context"

	"github.com/namenice/kamui/internal/domain"
)

// CatalogRepository covers the hardware catalog masters
// HardwareType -> HardwareInfo. Both delete edges are Restrict: callers must
// consult the dependent counts before deleting.
type CatalogRepository interface {
	ListHardwareTypes(ctx context.Context, f HardwareTypeFilter, opts ListOptions) ([]*domain.HardwareType, int, error)
	GetHardwareType(ctx context.Context, id string) (*domain.HardwareType, error)
	CreateHardwareType(ctx context.Context, t *domain.HardwareType) error
	UpdateHardwareType(ctx context.Context, t *domain.HardwareType) error
	DeleteHardwareType(ctx context.Context, id string) error
	HardwareTypeNameTaken(ctx context.Context, name, excludeID string) (bool, error)
	// CountInfosByType counts hardware_infos referencing the type.
	CountInfosByType(ctx context.Context, typeID string) (int, error)

	ListHardwareInfos(ctx context.Context, f HardwareInfoFilter, opts ListOptions) ([]*domain.HardwareInfo, int, error)
	GetHardwareInfo(ctx context.Context, id string) (*domain.HardwareInfo, error)
	CreateHardwareInfo(ctx context.Context, info *domain.HardwareInfo) error
	UpdateHardwareInfo(ctx context.Context, info *domain.HardwareInfo) error
	DeleteHardwareInfo(ctx context.Context, id string) error
	// ModelTaken checks the (manufacturer, model) compound key.
	ModelTaken(ctx context.Context, manufacturer, model, excludeID string) (bool, error)
	// CountHardwareByInfo counts hardware rows referencing the info.
	CountHardwareByInfo(ctx context.Context, infoID string) (int, error)
}

// HardwareTypeFilter narrows hardware-type lists.
type HardwareTypeFilter struct {
	Search   string
	Name     string
	Category string // exact match
}

// HardwareInfoFilter narrows hardware-info lists.
type HardwareInfoFilter struct {
	Search         string
	Manufacturer   string
	Model          string
	HardwareTypeID string
}
