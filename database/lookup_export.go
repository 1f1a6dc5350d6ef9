package database

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	lookupsSheetName = "Address Lookups"
	maxExportRows    = 10000
)

var lookupExportHeaders = []string{
	"ID", "Created At", "Source", "Query", "Outcome",
	"Addresses", "Place ID", "Candidates", "Duration (ms)", "Error",
}

// ExportLookupsToExcel пишет журнал в XLSX. Без Limit выгружается до 10000 последних записей.
func (db *LookupDB) ExportLookupsToExcel(ctx context.Context, w io.Writer, filter LookupFilter) (int, error) {
	if filter.Limit <= 0 {
		filter.Limit = maxExportRows
	}
	records, err := db.listLookups(ctx, filter, maxExportRows)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch lookups: %w", err)
	}

	if err := WriteLookupsExcel(w, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// WriteLookupsExcel пишет записи журнала в XLSX книгу
func WriteLookupsExcel(w io.Writer, records []*LookupRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), lookupsSheetName); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	// Стиль заголовков
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range lookupExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(lookupsSheetName, cell, header)
		f.SetCellStyle(lookupsSheetName, cell, cell, headerStyle)
	}

	for rowIdx, record := range records {
		row := rowIdx + 2
		values := []interface{}{
			record.ID,
			record.CreatedAt.Format("2006-01-02 15:04:05"),
			record.Source,
			record.Query,
			record.Outcome,
			strings.Join(record.Addresses, "; "),
			record.PlaceID,
			record.CandidateCount,
			record.DurationMs,
			record.ErrorMessage,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(lookupsSheetName, cell, value)
		}
	}

	for i := range lookupExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := 15.0
		if lookupExportHeaders[i] == "Query" || lookupExportHeaders[i] == "Addresses" {
			width = 40
		}
		f.SetColWidth(lookupsSheetName, col, col, width)
	}

	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}
