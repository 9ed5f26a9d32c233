package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/domain"
	"github.com/namenice/kamui/internal/models"
	"github.com/namenice/kamui/internal/repository"
)

// InterfaceService handles interface connections, the edges of the topology
// graph. An interface always has an owning hardware; the uplink side is
// optional and may never point back at the owner.
type InterfaceService struct {
	repo     repository.InterfacesRepository
	hardware repository.HardwareRepository
	logger   *zap.Logger
}

func NewInterfaceService(repo repository.InterfacesRepository, hardware repository.HardwareRepository, logger *zap.Logger) *InterfaceService {
	return &InterfaceService{repo: repo, hardware: hardware, logger: logger}
}

type CreateInterfaceInput struct {
	Name              string  `json:"name"`
	MacAddress        *string `json:"macAddress"`
	IPAddress         *string `json:"ipAddress"`
	Speed             *string `json:"speed"`
	Type              *string `json:"type"`
	HardwareID        string  `json:"hardwareId"`
	ConnectedSwitchID *string `json:"connectedSwitchId"`
	ConnectedPort     *string `json:"connectedPort"`
}

type UpdateInterfaceInput struct {
	Name              *string `json:"name"`
	MacAddress        *string `json:"macAddress"`
	IPAddress         *string `json:"ipAddress"`
	Speed             *string `json:"speed"`
	Type              *string `json:"type"`
	HardwareID        *string `json:"hardwareId"`
	ConnectedSwitchID *string `json:"connectedSwitchId"`
	ConnectedPort     *string `json:"connectedPort"`
}

func (s *InterfaceService) ListInterfaces(ctx context.Context, f repository.InterfaceFilter, opts repository.ListOptions) (*models.Page[*domain.InterfaceConnection], error) {
	opts = opts.Normalize()
	conns, total, err := s.repo.ListInterfaces(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	return models.NewPage(conns, opts.Page, opts.Limit, total), nil
}

func (s *InterfaceService) GetInterface(ctx context.Context, id string) (*domain.InterfaceConnection, error) {
	return s.repo.GetInterface(ctx, id)
}

// checkEndpoints verifies the owner exists and the uplink, when set, exists
// and is not the owner itself.
func (s *InterfaceService) checkEndpoints(ctx context.Context, hardwareID string, switchID *string) error {
	ok, err := s.hardware.HardwareExists(ctx, hardwareID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("Hardware")
	}
	if switchID == nil || *switchID == "" {
		return nil
	}
	if *switchID == hardwareID {
		return domain.Invalid("an interface cannot be connected to its own hardware")
	}
	ok, err = s.hardware.HardwareExists(ctx, *switchID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("Connected switch")
	}
	return nil
}

func (s *InterfaceService) CreateInterface(ctx context.Context, in CreateInterfaceInput) (*domain.InterfaceConnection, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("Interface name is required")
	}
	if in.HardwareID == "" {
		return nil, domain.Invalid("hardwareId is required")
	}
	switchID := in.ConnectedSwitchID
	if switchID != nil && *switchID == "" {
		switchID = nil
	}
	if err := s.checkEndpoints(ctx, in.HardwareID, switchID); err != nil {
		return nil, err
	}
	conn := &domain.InterfaceConnection{
		Name:              name,
		MacAddress:        in.MacAddress,
		IPAddress:         in.IPAddress,
		Speed:             in.Speed,
		Type:              in.Type,
		HardwareID:        in.HardwareID,
		ConnectedSwitchID: switchID,
		ConnectedPort:     in.ConnectedPort,
	}
	if err := s.repo.CreateInterface(ctx, conn); err != nil {
		return nil, err
	}
	s.logger.Info("interface created", zap.String("interface_id", conn.ID), zap.String("hardware_id", conn.HardwareID))
	return s.repo.GetInterface(ctx, conn.ID)
}

func (s *InterfaceService) UpdateInterface(ctx context.Context, id string, in UpdateInterfaceInput) (*domain.InterfaceConnection, error) {
	conn, err := s.repo.GetInterface(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("Interface name is required")
		}
		conn.Name = name
	}
	if in.HardwareID != nil {
		conn.HardwareID = *in.HardwareID
	}
	if in.ConnectedSwitchID != nil {
		// Empty string clears the uplink.
		if *in.ConnectedSwitchID == "" {
			conn.ConnectedSwitchID = nil
		} else {
			conn.ConnectedSwitchID = in.ConnectedSwitchID
		}
	}
	if err := s.checkEndpoints(ctx, conn.HardwareID, conn.ConnectedSwitchID); err != nil {
		return nil, err
	}
	if in.MacAddress != nil {
		conn.MacAddress = in.MacAddress
	}
	if in.IPAddress != nil {
		conn.IPAddress = in.IPAddress
	}
	if in.Speed != nil {
		conn.Speed = in.Speed
	}
	if in.Type != nil {
		conn.Type = in.Type
	}
	if in.ConnectedPort != nil {
		conn.ConnectedPort = in.ConnectedPort
	}
	if err := s.repo.UpdateInterface(ctx, conn); err != nil {
		return nil, err
	}
	return s.repo.GetInterface(ctx, id)
}

func (s *InterfaceService) DeleteInterface(ctx context.Context, id string) error {
	return s.repo.DeleteInterface(ctx, id)
}
