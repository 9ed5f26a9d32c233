package repository

import (
	"context"

	"github.com/namenice/kamui/internal/domain"
)

// HardwareRepository covers physical inventory items. Hardware sits on both
// sides of the topology graph: it owns interfaces (cascade on delete) and can
// be the uplink target of interfaces owned by other hardware (nullified on
// delete).
type HardwareRepository interface {
	ListHardware(ctx context.Context, f HardwareFilter, opts ListOptions) ([]*domain.Hardware, int, error)
	GetHardware(ctx context.Context, id string) (*domain.Hardware, error)
	CreateHardware(ctx context.Context, hw *domain.Hardware) error
	UpdateHardware(ctx context.Context, hw *domain.Hardware) error
	DeleteHardware(ctx context.Context, id string) error
	SerialTaken(ctx context.Context, serial, excludeID string) (bool, error)
	HardwareExists(ctx context.Context, id string) (bool, error)
	// ListHardwareForExport returns the flattened rows used by the Excel
	// export: every hardware with its model, location path and tenant name.
	ListHardwareForExport(ctx context.Context, f HardwareFilter) ([]*HardwareExportRow, error)
}

// HardwareFilter narrows hardware lists. Search matches the hardware name,
// serial number and the related model's manufacturer/model, case-insensitively.
type HardwareFilter struct {
	Search         string
	Name           string
	SerialNumber   string // exact match
	Status         string // exact match
	RackID         string
	TenantID       string
	HardwareTypeID string // filtered through the hardware_infos relation
}

// HardwareExportRow is one line of the inventory export.
type HardwareExportRow struct {
	Name         string
	SerialNumber *string
	Status       string
	Manufacturer string
	Model        string
	TypeName     string
	Region       string
	Zone         string
	Site         string
	Room         string
	Rack         string
	UPosition    *int
	TenantName   *string
	OobIP        *string
}
