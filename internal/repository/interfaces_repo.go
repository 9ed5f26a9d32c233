package repository

import (
	"context"

	"github.com/namenice/kamui/internal/domain"
)

// InterfacesRepository covers interface connections. Listing by owner and
// listing by uplink target are distinct filters on the same table.
type InterfacesRepository interface {
	ListInterfaces(ctx context.Context, f InterfaceFilter, opts ListOptions) ([]*domain.InterfaceConnection, int, error)
	GetInterface(ctx context.Context, id string) (*domain.InterfaceConnection, error)
	CreateInterface(ctx context.Context, conn *domain.InterfaceConnection) error
	UpdateInterface(ctx context.Context, conn *domain.InterfaceConnection) error
	DeleteInterface(ctx context.Context, id string) error
}

// InterfaceFilter narrows interface lists. Search matches port name, IP and
// MAC address.
type InterfaceFilter struct {
	Search            string
	HardwareID        string // interfaces owned by this hardware
	ConnectedSwitchID string // interfaces plugged into this switch
}
