package domain

import "time"

// HardwareInfo is a catalog model record (e.g. Cisco 2960). The
// (manufacturer, model) tuple is unique globally. Height is authoritative
// for every Hardware referencing this info.
type HardwareInfo struct {
	ID             string    `json:"id" db:"id"`
	Manufacturer   string    `json:"manufacturer" db:"manufacturer"`
	Model          string    `json:"model" db:"model"`
	Height         int       `json:"height" db:"height"`
	HardwareTypeID string    `json:"hardwareTypeId" db:"hardware_type_id"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`

	HardwareCount int           `json:"hardwareCount" db:"-"`
	HardwareType  *HardwareType `json:"hardwareType,omitempty" db:"-"`
}
