package repository

import (
	"context"

	"github.com/namenice/kamui/internal/domain"
)

// LocationsRepository covers the containment hierarchy
// Region -> Zone -> Site -> Room -> Rack.
//
// Delete methods apply the cascade policy transitively inside a single
// transaction: everything mounted beneath the deleted row is removed, and
// interfaces elsewhere that uplink into removed hardware are nullified first.
type LocationsRepository interface {
	// Regions
	ListRegions(ctx context.Context, f RegionFilter, opts ListOptions) ([]*domain.Region, int, error)
	GetRegion(ctx context.Context, id string) (*domain.Region, error)
	CreateRegion(ctx context.Context, region *domain.Region) error
	UpdateRegion(ctx context.Context, region *domain.Region) error
	DeleteRegion(ctx context.Context, id string) error
	RegionNameTaken(ctx context.Context, name, excludeID string) (bool, error)

	// Zones
	ListZones(ctx context.Context, f ZoneFilter, opts ListOptions) ([]*domain.Zone, int, error)
	GetZone(ctx context.Context, id string) (*domain.Zone, error)
	CreateZone(ctx context.Context, zone *domain.Zone) error
	UpdateZone(ctx context.Context, zone *domain.Zone) error
	DeleteZone(ctx context.Context, id string) error
	ZoneNameTaken(ctx context.Context, name, regionID, excludeID string) (bool, error)

	// Sites
	ListSites(ctx context.Context, f SiteFilter, opts ListOptions) ([]*domain.Site, int, error)
	GetSite(ctx context.Context, id string) (*domain.Site, error)
	CreateSite(ctx context.Context, site *domain.Site) error
	UpdateSite(ctx context.Context, site *domain.Site) error
	DeleteSite(ctx context.Context, id string) error
	SiteNameTaken(ctx context.Context, name, zoneID, excludeID string) (bool, error)

	// Rooms
	ListRooms(ctx context.Context, f RoomFilter, opts ListOptions) ([]*domain.Room, int, error)
	GetRoom(ctx context.Context, id string) (*domain.Room, error)
	CreateRoom(ctx context.Context, room *domain.Room) error
	UpdateRoom(ctx context.Context, room *domain.Room) error
	DeleteRoom(ctx context.Context, id string) error
	RoomNameTaken(ctx context.Context, name, siteID, excludeID string) (bool, error)

	// Racks
	ListRacks(ctx context.Context, f RackFilter, opts ListOptions) ([]*domain.Rack, int, error)
	GetRack(ctx context.Context, id string) (*domain.Rack, error)
	CreateRack(ctx context.Context, rack *domain.Rack) error
	UpdateRack(ctx context.Context, rack *domain.Rack) error
	DeleteRack(ctx context.Context, id string) error
	RackNameTaken(ctx context.Context, name, roomID, excludeID string) (bool, error)

	// RackPlacement reports whether a unit span [uPosition, uPosition+uHeight)
	// fits the rack, listing any hardware already overlapping it.
	// excludeHardwareID skips one row, for move/resize checks.
	RackPlacement(ctx context.Context, rackID string, uPosition, uHeight int, excludeHardwareID string) (*domain.PlacementReport, error)
}

// RegionFilter narrows region lists. Search matches name/description.
type RegionFilter struct {
	Search string
	Name   string // exact match
}

// ZoneFilter narrows zone lists. Name is a partial match.
type ZoneFilter struct {
	Search   string
	Name     string
	RegionID string
}

// SiteFilter narrows site lists.
type SiteFilter struct {
	Search string
	Name   string
	ZoneID string
}

// RoomFilter narrows room lists.
type RoomFilter struct {
	Search string
	Name   string
	SiteID string
}

// RackFilter narrows rack lists.
type RackFilter struct {
	Search string
	Name   string
	RoomID string
}
