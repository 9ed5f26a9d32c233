package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/domain"
	"github.com/namenice/kamui/internal/models"
	"github.com/namenice/kamui/internal/repository"
)

// LocationService handles the containment hierarchy
// Region -> Zone -> Site -> Room -> Rack.
type LocationService struct {
	repo   repository.LocationsRepository
	logger *zap.Logger
}

func NewLocationService(repo repository.LocationsRepository, logger *zap.Logger) *LocationService {
	return &LocationService{repo: repo, logger: logger}
}

// ---------------------------------------------------------------------------
// Regions
// ---------------------------------------------------------------------------

type CreateRegionInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type UpdateRegionInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (s *LocationService) ListRegions(ctx context.Context, f repository.RegionFilter, opts repository.ListOptions) (*models.Page[*domain.Region], error) {
	opts = opts.Normalize()
	regions, total, err := s.repo.ListRegions(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	return models.NewPage(regions, opts.Page, opts.Limit, total), nil
}

func (s *LocationService) GetRegion(ctx context.Context, id string) (*domain.Region, error) {
	return s.repo.GetRegion(ctx, id)
}

func (s *LocationService) CreateRegion(ctx context.Context, in CreateRegionInput) (*domain.Region, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("Region name is required")
	}
	taken, err := s.repo.RegionNameTaken(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("Region name already taken")
	}
	region := &domain.Region{Name: name, Description: in.Description}
	if err := s.repo.CreateRegion(ctx, region); err != nil {
		return nil, err
	}
	s.logger.Info("region created", zap.String("region_id", region.ID), zap.String("name", region.Name))
	return region, nil
}

func (s *LocationService) UpdateRegion(ctx context.Context, id string, in UpdateRegionInput) (*domain.Region, error) {
	region, err := s.repo.GetRegion(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("Region name is required")
		}
		taken, err := s.repo.RegionNameTaken(ctx, name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.Conflict("Region name already taken")
		}
		region.Name = name
	}
	if in.Description != nil {
		region.Description = in.Description
	}
	if err := s.repo.UpdateRegion(ctx, region); err != nil {
		return nil, err
	}
	return region, nil
}

func (s *LocationService) DeleteRegion(ctx context.Context, id string) error {
	if err := s.repo.DeleteRegion(ctx, id); err != nil {
		return err
	}
	s.logger.Info("region deleted with descendants", zap.String("region_id", id))
	return nil
}

// ---------------------------------------------------------------------------
// Zones
// ---------------------------------------------------------------------------

type CreateZoneInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	RegionID    string  `json:"regionId"`
}

type UpdateZoneInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	RegionID    *string `json:"regionId"`
}

func (s *LocationService) ListZones(ctx context.Context, f repository.ZoneFilter, opts repository.ListOptions) (*models.Page[*domain.Zone], error) {
	opts = opts.Normalize()
	zones, total, err := s.repo.ListZones(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	return models.NewPage(zones, opts.Page, opts.Limit, total), nil
}

func (s *LocationService) GetZone(ctx context.Context, id string) (*domain.Zone, error) {
	return s.repo.GetZone(ctx, id)
}

func (s *LocationService) CreateZone(ctx context.Context, in CreateZoneInput) (*domain.Zone, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("Zone name is required")
	}
	if in.RegionID == "" {
		return nil, domain.Invalid("regionId is required")
	}
	if _, err := s.repo.GetRegion(ctx, in.RegionID); err != nil {
		return nil, err
	}
	taken, err := s.repo.ZoneNameTaken(ctx, name, in.RegionID, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("Zone name already taken in this region")
	}
	zone := &domain.Zone{Name: name, Description: in.Description, RegionID: in.RegionID}
	if err := s.repo.CreateZone(ctx, zone); err != nil {
		return nil, err
	}
	s.logger.Info("zone created", zap.String("zone_id", zone.ID), zap.String("region_id", zone.RegionID))
	return zone, nil
}

func (s *LocationService) UpdateZone(ctx context.Context, id string, in UpdateZoneInput) (*domain.Zone, error) {
	zone, err := s.repo.GetZone(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.RegionID != nil && *in.RegionID != zone.RegionID {
		if _, err := s.repo.GetRegion(ctx, *in.RegionID); err != nil {
			return nil, err
		}
		zone.RegionID = *in.RegionID
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("Zone name is required")
		}
		zone.Name = name
	}
	// Moving a zone re-scopes its name, so the check always runs against the
	// effective parent.
	taken, err := s.repo.ZoneNameTaken(ctx, zone.Name, zone.RegionID, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("Zone name already taken in this region")
	}
	if in.Description != nil {
		zone.Description = in.Description
	}
	if err := s.repo.UpdateZone(ctx, zone); err != nil {
		return nil, err
	}
	return zone, nil
}

func (s *LocationService) DeleteZone(ctx context.Context, id string) error {
	if err := s.repo.DeleteZone(ctx, id); err != nil {
		return err
	}
	s.logger.Info("zone deleted with descendants", zap.String("zone_id", id))
	return nil
}

// ---------------------------------------------------------------------------
// Sites
// ---------------------------------------------------------------------------

type CreateSiteInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ZoneID      string  `json:"zoneId"`
}

type UpdateSiteInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ZoneID      *string `json:"zoneId"`
}

func (s *LocationService) ListSites(ctx context.Context, f repository.SiteFilter, opts repository.ListOptions) (*models.Page[*domain.Site], error) {
	opts = opts.Normalize()
	sites, total, err := s.repo.ListSites(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	return models.NewPage(sites, opts.Page, opts.Limit, total), nil
}

func (s *LocationService) GetSite(ctx context.Context, id string) (*domain.Site, error) {
	return s.repo.GetSite(ctx, id)
}

func (s *LocationService) CreateSite(ctx context.Context, in CreateSiteInput) (*domain.Site, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("Site name is required")
	}
	if in.ZoneID == "" {
		return nil, domain.Invalid("zoneId is required")
	}
	if _, err := s.repo.GetZone(ctx, in.ZoneID); err != nil {
		return nil, err
	}
	taken, err := s.repo.SiteNameTaken(ctx, name, in.ZoneID, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("Site name already taken in this zone")
	}
	site := &domain.Site{Name: name, Description: in.Description, ZoneID: in.ZoneID}
	if err := s.repo.CreateSite(ctx, site); err != nil {
		return nil, err
	}
	s.logger.Info("site created", zap.String("site_id", site.ID), zap.String("zone_id", site.ZoneID))
	return site, nil
}

func (s *LocationService) UpdateSite(ctx context.Context, id string, in UpdateSiteInput) (*domain.Site, error) {
	site, err := s.repo.GetSite(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ZoneID != nil && *in.ZoneID != site.ZoneID {
		if _, err := s.repo.GetZone(ctx, *in.ZoneID); err != nil {
			return nil, err
		}
		site.ZoneID = *in.ZoneID
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("Site name is required")
		}
		site.Name = name
	}
	taken, err := s.repo.SiteNameTaken(ctx, site.Name, site.ZoneID, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("Site name already taken in this zone")
	}
	if in.Description != nil {
		site.Description = in.Description
	}
	if err := s.repo.UpdateSite(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *LocationService) DeleteSite(ctx context.Context, id string) error {
	if err := s.repo.DeleteSite(ctx, id); err != nil {
		return err
	}
	s.logger.Info("site deleted with descendants", zap.String("site_id", id))
	return nil
}

// ---------------------------------------------------------------------------
// Rooms
// ---------------------------------------------------------------------------

type CreateRoomInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	SiteID      string  `json:"siteId"`
}

type UpdateRoomInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	SiteID      *string `json:"siteId"`
}

func (s *LocationService) ListRooms(ctx context.Context, f repository.RoomFilter, opts repository.ListOptions) (*models.Page[*domain.Room], error) {
	opts = opts.Normalize()
	rooms, total, err := s.repo.ListRooms(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	return models.NewPage(rooms, opts.Page, opts.Limit, total), nil
}

func (s *LocationService) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	return s.repo.GetRoom(ctx, id)
}

func (s *LocationService) CreateRoom(ctx context.Context, in CreateRoomInput) (*domain.Room, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("Room name is required")
	}
	if in.SiteID == "" {
		return nil, domain.Invalid("siteId is required")
	}
	if _, err := s.repo.GetSite(ctx, in.SiteID); err != nil {
		return nil, err
	}
	taken, err := s.repo.RoomNameTaken(ctx, name, in.SiteID, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("Room name already taken in this site")
	}
	room := &domain.Room{Name: name, Description: in.Description, SiteID: in.SiteID}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	s.logger.Info("room created", zap.String("room_id", room.ID), zap.String("site_id", room.SiteID))
	return room, nil
}

func (s *LocationService) UpdateRoom(ctx context.Context, id string, in UpdateRoomInput) (*domain.Room, error) {
	room, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.SiteID != nil && *in.SiteID != room.SiteID {
		if _, err := s.repo.GetSite(ctx, *in.SiteID); err != nil {
			return nil, err
		}
		room.SiteID = *in.SiteID
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("Room name is required")
		}
		room.Name = name
	}
	taken, err := s.repo.RoomNameTaken(ctx, room.Name, room.SiteID, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("Room name already taken in this site")
	}
	if in.Description != nil {
		room.Description = in.Description
	}
	if err := s.repo.UpdateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *LocationService) DeleteRoom(ctx context.Context, id string) error {
	if err := s.repo.DeleteRoom(ctx, id); err != nil {
		return err
	}
	s.logger.Info("room deleted with descendants", zap.String("room_id", id))
	return nil
}

// ---------------------------------------------------------------------------
// Racks
// ---------------------------------------------------------------------------

type CreateRackInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	UHeight     int     `json:"uHeight"`
	RoomID      string  `json:"roomId"`
}

type UpdateRackInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	UHeight     *int    `json:"uHeight"`
	RoomID      *string `json:"roomId"`
}

func (s *LocationService) ListRacks(ctx context.Context, f repository.RackFilter, opts repository.ListOptions) (*models.Page[*domain.Rack], error) {
	opts = opts.Normalize()
	racks, total, err := s.repo.ListRacks(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	return models.NewPage(racks, opts.Page, opts.Limit, total), nil
}

func (s *LocationService) GetRack(ctx context.Context, id string) (*domain.Rack, error) {
	return s.repo.GetRack(ctx, id)
}

func (s *LocationService) CreateRack(ctx context.Context, in CreateRackInput) (*domain.Rack, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("Rack name is required")
	}
	if in.RoomID == "" {
		return nil, domain.Invalid("roomId is required")
	}
	if in.UHeight <= 0 {
		return nil, domain.Invalid("uHeight must be positive")
	}
	if _, err := s.repo.GetRoom(ctx, in.RoomID); err != nil {
		return nil, err
	}
	taken, err := s.repo.RackNameTaken(ctx, name, in.RoomID, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("Rack name already taken in this room")
	}
	rack := &domain.Rack{Name: name, Description: in.Description, UHeight: in.UHeight, RoomID: in.RoomID}
	if err := s.repo.CreateRack(ctx, rack); err != nil {
		return nil, err
	}
	s.logger.Info("rack created", zap.String("rack_id", rack.ID), zap.String("room_id", rack.RoomID))
	return rack, nil
}

func (s *LocationService) UpdateRack(ctx context.Context, id string, in UpdateRackInput) (*domain.Rack, error) {
	rack, err := s.repo.GetRack(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.RoomID != nil && *in.RoomID != rack.RoomID {
		if _, err := s.repo.GetRoom(ctx, *in.RoomID); err != nil {
			return nil, err
		}
		rack.RoomID = *in.RoomID
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("Rack name is required")
		}
		rack.Name = name
	}
	taken, err := s.repo.RackNameTaken(ctx, rack.Name, rack.RoomID, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("Rack name already taken in this room")
	}
	if in.UHeight != nil {
		if *in.UHeight <= 0 {
			return nil, domain.Invalid("uHeight must be positive")
		}
		rack.UHeight = *in.UHeight
	}
	if in.Description != nil {
		rack.Description = in.Description
	}
	if err := s.repo.UpdateRack(ctx, rack); err != nil {
		return nil, err
	}
	return rack, nil
}

func (s *LocationService) DeleteRack(ctx context.Context, id string) error {
	if err := s.repo.DeleteRack(ctx, id); err != nil {
		return err
	}
	s.logger.Info("rack deleted with mounted hardware", zap.String("rack_id", id))
	return nil
}

// CheckPlacement reports whether a hardware of the given height fits at
// uPosition in the rack. Placement is advisory: conflicts are reported, not
// enforced, so operators can still record overlapping legacy installs.
func (s *LocationService) CheckPlacement(ctx context.Context, rackID string, uPosition, uHeight int, excludeHardwareID string) (*domain.PlacementReport, error) {
	if uPosition < 1 {
		return nil, domain.Invalid("uPosition must be at least 1")
	}
	if uHeight <= 0 {
		return nil, domain.Invalid("uHeight must be positive")
	}
	return s.repo.RackPlacement(ctx, rackID, uPosition, uHeight, excludeHardwareID)
}
