package domain

import "time"

// Hardware statuses.
const (
	HardwareStatusActive      = "active"
	HardwareStatusMaintenance = "maintenance"
	HardwareStatusFailed      = "failed"
	HardwareStatusOffline     = "offline"
	HardwareStatusReserved    = "reserved"
	HardwareStatusDeprecated  = "deprecated"
)

// HardwareStatuses lists the accepted status values.
var HardwareStatuses = []string{
	HardwareStatusActive,
	HardwareStatusMaintenance,
	HardwareStatusFailed,
	HardwareStatusOffline,
	HardwareStatusReserved,
	HardwareStatusDeprecated,
}

// Hardware is a physical inventory item mounted in a Rack. Serial number is
// unique globally when present. Height comes from its HardwareInfo, never
// stored here. Warranty dates are date-only strings (YYYY-MM-DD).
type Hardware struct {
	ID                string    `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	SerialNumber      *string   `json:"serialNumber" db:"serial_number"`
	Status            string    `json:"status" db:"status"`
	OobIP             *string   `json:"oobIp" db:"oob_ip"`
	Note              *string   `json:"note" db:"note"`
	Specifications    *string   `json:"specifications" db:"specifications"`
	WarrantyStartDate *string   `json:"warrantyStartDate" db:"warranty_start_date"`
	WarrantyEndDate   *string   `json:"warrantyEndDate" db:"warranty_end_date"`
	UPosition         *int      `json:"uPosition" db:"u_position"`
	RackID            string    `json:"rackId" db:"rack_id"`
	TenantID          *string   `json:"tenantId" db:"tenant_id"`
	HardwareInfoID    string    `json:"hardwareInfoId" db:"hardware_info_id"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`

	HardwareInfo *HardwareInfo          `json:"hardwareInfo,omitempty" db:"-"`
	Tenant       *Tenant                `json:"tenant,omitempty" db:"-"`
	Rack         *Rack                  `json:"rack,omitempty" db:"-"`
	Interfaces   []*InterfaceConnection `json:"interfaces,omitempty" db:"-"`
}

// ValidHardwareStatus reports whether s is an accepted status value.
func ValidHardwareStatus(s string) bool {
	for _, v := range HardwareStatuses {
		if v == s {
			return true
		}
	}
	return false
}
