// Package report writes a batch run summary as an XLSX workbook.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/divyanshahuja36/pdfoutline"
)

const sheetName = "Summary"

// Write saves a workbook with one row per processed document plus a
// totals row.
func Write(path string, res *pdfoutline.BatchResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := []interface{}{"File", "Output", "Title", "Headings", "Cached", "Status"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, fr := range res.Files {
		status := "ok"
		if fr.Err != nil {
			status = fr.Err.Error()
		}
		row := []interface{}{fr.Path, fr.Output, fr.Title, fr.Headings, fr.Cached, status}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	totals := []interface{}{
		fmt.Sprintf("%d files", len(res.Files)), "", "",
		"", fmt.Sprintf("%d cached", res.Cached),
		fmt.Sprintf("%d processed, %d failed", res.Processed, res.Failed),
	}
	cell := fmt.Sprintf("A%d", len(res.Files)+3)
	if err := f.SetSheetRow(sheetName, cell, &totals); err != nil {
		return fmt.Errorf("writing totals: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}
