package templates

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/bilant/internal/formula"
	"github.com/cleared-dev/bilant/internal/id"
	"github.com/cleared-dev/bilant/internal/model"
)

// Spreadsheet template columns: description, then nr_rd.
const (
	xlsxColDesc = 0
	xlsxColNrRd = 1
)

// ImportXLSX reads a template from the first sheet of a workbook laid out as
// description / nr_rd. Formulas are taken from the descriptions; RD formulas
// use the spreadsheet rules of formula.ExtractRDLoose. Blank rows and a
// leading header row are skipped.
func ImportXLSX(r io.Reader) ([]model.TemplateRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening template workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	var rows []model.TemplateRow
	for i, rec := range records {
		desc := cleanCell(rec, xlsxColDesc)
		nrRd := strings.ToLower(cleanCell(rec, xlsxColNrRd))
		if desc == "" && nrRd == "" {
			continue
		}
		if i == 0 && nrRd != "" && !id.IsRowID(nrRd) {
			continue
		}

		row := model.TemplateRow{
			Description: desc,
			NrRd:        nrRd,
			FormulaCT:   formula.ExtractCT(desc),
			FormulaRD:   formula.ExtractRDLoose(desc),
		}
		SetRowType(&row)
		row.SortOrder = len(rows) + 1
		rows = append(rows, row)
	}
	return rows, nil
}

// SetRowType derives row_type, bold and indent from a row's description, id
// and formulas: rows with nothing but text are sections, RD rows and
// "TOTAL" rows are bold totals, the rest is data indented one level when it
// has an id.
func SetRowType(row *model.TemplateRow) {
	switch {
	case row.NrRd == "" && row.FormulaCT == "" && row.FormulaRD == "" && row.Description != "":
		row.RowType = model.RowTypeSection
	case strings.Contains(strings.ToUpper(row.Description), "TOTAL") || row.FormulaRD != "":
		row.RowType = model.RowTypeTotal
		row.IsBold = true
	default:
		row.RowType = model.RowTypeData
	}
	if row.RowType == model.RowTypeData && row.NrRd != "" {
		row.IndentLevel = 1
	}
}

func cleanCell(rec []string, col int) string {
	if col >= len(rec) {
		return ""
	}
	return strings.Join(strings.Fields(rec[col]), " ")
}
