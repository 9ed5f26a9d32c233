package domain

// InventoryStats is the dashboard summary of everything tracked.
type InventoryStats struct {
	Regions         int `json:"regions"`
	Zones           int `json:"zones"`
	Sites           int `json:"sites"`
	Rooms           int `json:"rooms"`
	Racks           int `json:"racks"`
	TenantGroups    int `json:"tenantGroups"`
	Tenants         int `json:"tenants"`
	HardwareTypes   int `json:"hardwareTypes"`
	HardwareInfos   int `json:"hardwareInfos"`
	Hardwares       int `json:"hardwares"`
	ActiveHardwares int `json:"activeHardwares"`
	FailedHardwares int `json:"failedHardwares"`
	Interfaces      int `json:"interfaces"`
}
