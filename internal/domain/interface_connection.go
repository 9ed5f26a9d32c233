package domain

import "time"

// InterfaceConnection is a network port owned by one Hardware, optionally
// uplinked to another Hardware acting as a switch. The uplink may never point
// back at the owning hardware.
type InterfaceConnection struct {
	ID                string    `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	MacAddress        *string   `json:"macAddress" db:"mac_address"`
	IPAddress         *string   `json:"ipAddress" db:"ip_address"`
	Speed             *string   `json:"speed" db:"speed"`
	Type              *string   `json:"type" db:"type"`
	HardwareID        string    `json:"hardwareId" db:"hardware_id"`
	ConnectedSwitchID *string   `json:"connectedSwitchId" db:"connected_switch_id"`
	ConnectedPort     *string   `json:"connectedPort" db:"connected_port"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`

	ParentDevice    *HardwareRef `json:"parentDevice,omitempty" db:"-"`
	ConnectedSwitch *HardwareRef `json:"connectedSwitch,omitempty" db:"-"`
}

// HardwareRef is a display projection of a hardware row referenced by an
// interface (owner or uplink target).
type HardwareRef struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	SerialNumber *string `json:"serialNumber,omitempty"`
	OobIP        *string `json:"oobIp,omitempty"`
}
