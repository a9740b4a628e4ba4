package export

import (
	"fmt"
	"time"

	"github.com/lendhub/leaddesk/pkg/models"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Leads"

// XLSX renders the same columns and cells as CSV into a workbook with a
// single "Leads" sheet.
func XLSX(leads []models.Lead, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	// Set header style
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(Columns))
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, l := range leads {
		cells := Row(l, loc)
		row := make([]any, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", lastCol, 18); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
