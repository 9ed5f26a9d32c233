package httpapi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/namenice/kamui/internal/repository"
)

func TestGenerateHardwareExport(t *testing.T) {
	serial := "SN-42"
	uPos := 12
	tenant := "Acme"
	rows := []*repository.HardwareExportRow{
		{
			Name:         "web-01",
			SerialNumber: &serial,
			Status:       "active",
			Manufacturer: "Dell",
			Model:        "R740",
			TypeName:     "Server",
			Region:       "Europe",
			Zone:         "EU Central",
			Site:         "FRA-1",
			Room:         "Cold Aisle 1",
			Rack:         "A01",
			UPosition:    &uPos,
			TenantName:   &tenant,
		},
		{
			Name:         "spare-01",
			Status:       "reserved",
			Manufacturer: "HPE",
			Model:        "DL380",
			TypeName:     "Server",
			Region:       "Europe",
			Zone:         "EU Central",
			Site:         "FRA-1",
			Room:         "Cold Aisle 1",
			Rack:         "A02",
		},
	}

	data, err := GenerateHardwareExport(rows)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Hardware Inventory"}, f.GetSheetList())

	got, err := f.GetRows("Hardware Inventory")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, HardwareExportHeader, got[0])
	assert.Equal(t, "web-01", got[1][0])
	assert.Equal(t, "SN-42", got[1][1])
	assert.Equal(t, "12", got[1][11])
	assert.Equal(t, "Acme", got[1][12])

	// Optional fields render as empty cells, not "nil".
	assert.Equal(t, "spare-01", got[2][0])
	assert.Equal(t, "", got[2][1])
}

func TestGenerateHardwareExport_EmptyInventory(t *testing.T) {
	data, err := GenerateHardwareExport(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Hardware Inventory")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, HardwareExportHeader, got[0])
}
