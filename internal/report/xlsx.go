package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"urlcheck/internal/domain"
)

const sheetName = "Results"

// WriteXLSX writes the same table as the CSV report as a spreadsheet, for
// hand-off to people who live in Excel.
func WriteXLSX(path string, results []domain.Result, includeErrorType bool) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	header := []interface{}{ColURL, ColStatus, ColHTTPCode, ColErrorMsg}
	if includeErrorType {
		header = append(header, ColErrorType)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}

	for i, r := range results {
		row := []interface{}{r.URL, string(r.Status), r.HTTPCode, r.ErrorMessage}
		if includeErrorType {
			row = append(row, r.ErrorType)
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}
