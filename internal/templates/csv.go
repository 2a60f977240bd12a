package templates

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cleared-dev/bilant/internal/model"
)

// Header is the CSV header of a template file.
const Header = "description,nr_rd,formula_ct,formula_rd,row_type,is_bold,indent_level,sort_order"

const (
	numFields    = 8
	colDesc      = 0
	colNrRd      = 1
	colFormulaCT = 2
	colFormulaRD = 3
	colRowType   = 4
	colBold      = 5
	colIndent    = 6
	colSort      = 7
)

// ReadRows reads template rows from CSV.
func ReadRows(r io.Reader) ([]model.TemplateRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading template CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var rows []model.TemplateRow
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteRows writes template rows to CSV, header included.
func WriteRows(w io.Writer, rows []model.TemplateRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts a TemplateRow to a CSV record.
func MarshalRow(row model.TemplateRow) []string {
	rec := make([]string, numFields)
	rec[colDesc] = row.Description
	rec[colNrRd] = row.NrRd
	rec[colFormulaCT] = row.FormulaCT
	rec[colFormulaRD] = row.FormulaRD
	rec[colRowType] = string(row.RowType)
	rec[colBold] = strconv.FormatBool(row.IsBold)
	rec[colIndent] = strconv.Itoa(row.IndentLevel)
	rec[colSort] = strconv.Itoa(row.SortOrder)
	return rec
}

// UnmarshalRow converts a CSV record to a TemplateRow.
func UnmarshalRow(rec []string) (model.TemplateRow, error) {
	if len(rec) != numFields {
		return model.TemplateRow{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}

	bold := false
	if rec[colBold] != "" {
		b, err := strconv.ParseBool(rec[colBold])
		if err != nil {
			return model.TemplateRow{}, fmt.Errorf("parsing is_bold %q: %w", rec[colBold], err)
		}
		bold = b
	}

	indent, err := atoiOrZero(rec[colIndent])
	if err != nil {
		return model.TemplateRow{}, fmt.Errorf("parsing indent_level %q: %w", rec[colIndent], err)
	}

	sortOrder, err := atoiOrZero(rec[colSort])
	if err != nil {
		return model.TemplateRow{}, fmt.Errorf("parsing sort_order %q: %w", rec[colSort], err)
	}

	rowType := model.RowType(rec[colRowType])
	if rowType == "" {
		rowType = model.RowTypeData
	}

	return model.TemplateRow{
		Description: rec[colDesc],
		NrRd:        rec[colNrRd],
		FormulaCT:   rec[colFormulaCT],
		FormulaRD:   rec[colFormulaRD],
		RowType:     rowType,
		IsBold:      bold,
		IndentLevel: indent,
		SortOrder:   sortOrder,
	}, nil
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
