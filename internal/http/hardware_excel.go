package httpapi

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/namenice/kamui/internal/repository"
)

// HardwareExportHeader lists the export columns in order.
var HardwareExportHeader = []string{
	"Name",
	"Serial Number",
	"Status",
	"Manufacturer",
	"Model",
	"Type",
	"Region",
	"Zone",
	"Site",
	"Room",
	"Rack",
	"U Position",
	"Tenant",
	"OOB IP",
}

var hardwareExportWidths = []float64{
	25, // Name
	22, // Serial Number
	14, // Status
	18, // Manufacturer
	22, // Model
	16, // Type
	14, // Region
	14, // Zone
	14, // Site
	14, // Room
	14, // Rack
	12, // U Position
	18, // Tenant
	16, // OOB IP
}

// GenerateHardwareExport renders the flattened inventory rows as an xlsx file.
func GenerateHardwareExport(rows []*repository.HardwareExportRow) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, close only on error paths.

	sheetName := "Hardware Inventory"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range HardwareExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for col, width := range hardwareExportWidths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to resolve column name: %w", err)
		}
		if err := f.SetColWidth(sheetName, name, name, width); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, row := range rows {
		values := []any{
			row.Name,
			strOrEmpty(row.SerialNumber),
			row.Status,
			row.Manufacturer,
			row.Model,
			row.TypeName,
			row.Region,
			row.Zone,
			row.Site,
			row.Room,
			row.Rack,
			intOrEmpty(row.UPosition),
			strOrEmpty(row.TenantName),
			strOrEmpty(row.OobIP),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(i *int) any {
	if i == nil {
		return ""
	}
	return *i
}
