package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Bilant"

var xlsxHeader = []interface{}{"Nr. rd.", "Denumire", "Sold la inceputul anului", "Sold la sfarsitul perioadei", "Trace"}

// SaveXLSX writes lines to a single-sheet workbook: row id, description,
// prior amount, current amount and trace.
func SaveXLSX(path string, lines []Line) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &xlsxHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, l := range lines {
		var prior interface{}
		if l.HasPrior {
			prior = l.Prior.InexactFloat64()
		}
		row := []interface{}{l.NrRd, l.Description, prior, l.Current.InexactFloat64(), l.Trace}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}
