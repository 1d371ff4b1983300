package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"surveillance-dashboard/internal/view"
)

const SheetName = "Events"

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var EventsHeader = []string{
	"Event ID",
	"Time (UTC)",
	"Camera",
	"Camera Name",
	"Event Type",
	"Details",
	"Alert Level",
	"Alert",
}

var columnWidths = []float64{38, 20, 14, 28, 12, 48, 12, 8}

// EventsWorkbook renders event rows as an XLSX workbook with a single
// sheet. An empty list yields the header only.
func EventsWorkbook(rows []view.EventRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, header := range EventsHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("set header style: %w", err)
		}
	}

	for col, width := range columnWidths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, name, name, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []any{
			row.ID,
			row.Timestamp.UTC().Format(time.DateTime),
			row.CameraID,
			row.CameraName,
			row.EventType,
			row.Details,
			row.AlertLevel,
			row.Alert,
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName is the attachment name for an export taken at t.
func FileName(t time.Time) string {
	return "events_" + t.UTC().Format("20060102_150405") + ".xlsx"
}
