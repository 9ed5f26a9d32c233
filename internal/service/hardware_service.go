package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/domain"
	"github.com/namenice/kamui/internal/models"
	"github.com/namenice/kamui/internal/repository"
)

// HardwareService handles physical inventory items. Writes validate every
// foreign reference up front so a bad id surfaces as NotFound for that
// resource instead of a bare constraint error.
type HardwareService struct {
	repo      repository.HardwareRepository
	locations repository.LocationsRepository
	catalog   repository.CatalogRepository
	tenancy   repository.TenancyRepository
	logger    *zap.Logger
}

func NewHardwareService(
	repo repository.HardwareRepository,
	locations repository.LocationsRepository,
	catalog repository.CatalogRepository,
	tenancy repository.TenancyRepository,
	logger *zap.Logger,
) *HardwareService {
	return &HardwareService{
		repo:      repo,
		locations: locations,
		catalog:   catalog,
		tenancy:   tenancy,
		logger:    logger,
	}
}

type CreateHardwareInput struct {
	Name              string  `json:"name"`
	SerialNumber      *string `json:"serialNumber"`
	Status            string  `json:"status"`
	OobIP             *string `json:"oobIp"`
	Note              *string `json:"note"`
	Specifications    *string `json:"specifications"`
	WarrantyStartDate *string `json:"warrantyStartDate"`
	WarrantyEndDate   *string `json:"warrantyEndDate"`
	UPosition         *int    `json:"uPosition"`
	RackID            string  `json:"rackId"`
	TenantID          *string `json:"tenantId"`
	HardwareInfoID    string  `json:"hardwareInfoId"`
}

type UpdateHardwareInput struct {
	Name              *string `json:"name"`
	SerialNumber      *string `json:"serialNumber"`
	Status            *string `json:"status"`
	OobIP             *string `json:"oobIp"`
	Note              *string `json:"note"`
	Specifications    *string `json:"specifications"`
	WarrantyStartDate *string `json:"warrantyStartDate"`
	WarrantyEndDate   *string `json:"warrantyEndDate"`
	UPosition         *int    `json:"uPosition"`
	RackID            *string `json:"rackId"`
	TenantID          *string `json:"tenantId"`
	HardwareInfoID    *string `json:"hardwareInfoId"`
}

func (s *HardwareService) ListHardware(ctx context.Context, f repository.HardwareFilter, opts repository.ListOptions) (*models.Page[*domain.Hardware], error) {
	opts = opts.Normalize()
	hws, total, err := s.repo.ListHardware(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	return models.NewPage(hws, opts.Page, opts.Limit, total), nil
}

func (s *HardwareService) GetHardware(ctx context.Context, id string) (*domain.Hardware, error) {
	return s.repo.GetHardware(ctx, id)
}

// normalizeSerial trims the serial and maps empty to nil so blank inputs
// never collide under the unique constraint.
func normalizeSerial(serial *string) *string {
	if serial == nil {
		return nil
	}
	v := strings.TrimSpace(*serial)
	if v == "" {
		return nil
	}
	return &v
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func (s *HardwareService) validateRefs(ctx context.Context, rackID, infoID string, tenantID *string) error {
	if _, err := s.locations.GetRack(ctx, rackID); err != nil {
		return err
	}
	if _, err := s.catalog.GetHardwareInfo(ctx, infoID); err != nil {
		return err
	}
	if tenantID != nil && *tenantID != "" {
		if _, err := s.tenancy.GetTenant(ctx, *tenantID); err != nil {
			return err
		}
	}
	return nil
}

func (s *HardwareService) CreateHardware(ctx context.Context, in CreateHardwareInput) (*domain.Hardware, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("Hardware name is required")
	}
	if in.RackID == "" {
		return nil, domain.Invalid("rackId is required")
	}
	if in.HardwareInfoID == "" {
		return nil, domain.Invalid("hardwareInfoId is required")
	}
	status := in.Status
	if status == "" {
		status = domain.HardwareStatusActive
	}
	if !domain.ValidHardwareStatus(status) {
		return nil, domain.Invalid("invalid status: " + status)
	}
	if in.WarrantyStartDate != nil && !validDate(*in.WarrantyStartDate) {
		return nil, domain.Invalid("warrantyStartDate must be YYYY-MM-DD")
	}
	if in.WarrantyEndDate != nil && !validDate(*in.WarrantyEndDate) {
		return nil, domain.Invalid("warrantyEndDate must be YYYY-MM-DD")
	}
	if err := s.validateRefs(ctx, in.RackID, in.HardwareInfoID, in.TenantID); err != nil {
		return nil, err
	}
	serial := normalizeSerial(in.SerialNumber)
	if serial != nil {
		taken, err := s.repo.SerialTaken(ctx, *serial, "")
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.Conflict("Serial Number already exists")
		}
	}
	tenantID := in.TenantID
	if tenantID != nil && *tenantID == "" {
		tenantID = nil
	}
	hw := &domain.Hardware{
		Name:              name,
		SerialNumber:      serial,
		Status:            status,
		OobIP:             in.OobIP,
		Note:              in.Note,
		Specifications:    in.Specifications,
		WarrantyStartDate: in.WarrantyStartDate,
		WarrantyEndDate:   in.WarrantyEndDate,
		UPosition:         in.UPosition,
		RackID:            in.RackID,
		TenantID:          tenantID,
		HardwareInfoID:    in.HardwareInfoID,
	}
	if err := s.repo.CreateHardware(ctx, hw); err != nil {
		return nil, err
	}
	s.logger.Info("hardware created", zap.String("hardware_id", hw.ID), zap.String("rack_id", hw.RackID))
	return s.repo.GetHardware(ctx, hw.ID)
}

func (s *HardwareService) UpdateHardware(ctx context.Context, id string, in UpdateHardwareInput) (*domain.Hardware, error) {
	hw, err := s.repo.GetHardware(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("Hardware name is required")
		}
		hw.Name = name
	}
	if in.Status != nil {
		if !domain.ValidHardwareStatus(*in.Status) {
			return nil, domain.Invalid("invalid status: " + *in.Status)
		}
		hw.Status = *in.Status
	}
	if in.RackID != nil {
		hw.RackID = *in.RackID
	}
	if in.HardwareInfoID != nil {
		hw.HardwareInfoID = *in.HardwareInfoID
	}
	if in.TenantID != nil {
		if *in.TenantID == "" {
			hw.TenantID = nil
		} else {
			hw.TenantID = in.TenantID
		}
	}
	if err := s.validateRefs(ctx, hw.RackID, hw.HardwareInfoID, hw.TenantID); err != nil {
		return nil, err
	}
	if in.SerialNumber != nil {
		serial := normalizeSerial(in.SerialNumber)
		if serial != nil {
			taken, err := s.repo.SerialTaken(ctx, *serial, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, domain.Conflict("Serial Number already exists")
			}
		}
		hw.SerialNumber = serial
	}
	if in.WarrantyStartDate != nil {
		if !validDate(*in.WarrantyStartDate) {
			return nil, domain.Invalid("warrantyStartDate must be YYYY-MM-DD")
		}
		hw.WarrantyStartDate = in.WarrantyStartDate
	}
	if in.WarrantyEndDate != nil {
		if !validDate(*in.WarrantyEndDate) {
			return nil, domain.Invalid("warrantyEndDate must be YYYY-MM-DD")
		}
		hw.WarrantyEndDate = in.WarrantyEndDate
	}
	if in.OobIP != nil {
		hw.OobIP = in.OobIP
	}
	if in.Note != nil {
		hw.Note = in.Note
	}
	if in.Specifications != nil {
		hw.Specifications = in.Specifications
	}
	if in.UPosition != nil {
		hw.UPosition = in.UPosition
	}
	if err := s.repo.UpdateHardware(ctx, hw); err != nil {
		return nil, err
	}
	return s.repo.GetHardware(ctx, id)
}

// DeleteHardware removes the hardware with its own interfaces; interfaces on
// other hardware that uplinked into it lose the uplink but survive.
func (s *HardwareService) DeleteHardware(ctx context.Context, id string) error {
	if err := s.repo.DeleteHardware(ctx, id); err != nil {
		return err
	}
	s.logger.Info("hardware deleted, uplinks released", zap.String("hardware_id", id))
	return nil
}

// ExportRows returns the flattened inventory for the Excel export, honoring
// the same filters as the list endpoint.
func (s *HardwareService) ExportRows(ctx context.Context, f repository.HardwareFilter) ([]*repository.HardwareExportRow, error) {
	return s.repo.ListHardwareForExport(ctx, f)
}
