package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bilant/internal/model"
)

// Header is the CSV header for exported balance sheets.
const Header = "sort_order,nr_rd,description,row_type,is_bold,indent_level,current,prior,trace"

const (
	numFields      = 9
	colSortOrder   = 0
	colNrRd        = 1
	colDescription = 2
	colRowType     = 3
	colIsBold      = 4
	colIndentLevel = 5
	colCurrent     = 6
	colPrior       = 7
	colTrace       = 8
)

// MarshalLine converts a Line to a CSV row. Prior is left blank when the
// line has none.
func MarshalLine(l Line) []string {
	row := make([]string, numFields)
	row[colSortOrder] = strconv.Itoa(l.SortOrder)
	row[colNrRd] = l.NrRd
	row[colDescription] = l.Description
	row[colRowType] = string(l.RowType)
	row[colIsBold] = strconv.FormatBool(l.IsBold)
	row[colIndentLevel] = strconv.Itoa(l.IndentLevel)
	row[colCurrent] = l.Current.StringFixed(2)
	if l.HasPrior {
		row[colPrior] = l.Prior.StringFixed(2)
	}
	row[colTrace] = l.Trace
	return row
}

// UnmarshalLine converts a CSV row to a Line.
func UnmarshalLine(rec []string) (Line, error) {
	if len(rec) != numFields {
		return Line{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}
	order, err := strconv.Atoi(rec[colSortOrder])
	if err != nil {
		return Line{}, fmt.Errorf("parsing sort_order %q: %w", rec[colSortOrder], err)
	}
	indent, err := strconv.Atoi(rec[colIndentLevel])
	if err != nil {
		return Line{}, fmt.Errorf("parsing indent_level %q: %w", rec[colIndentLevel], err)
	}
	bold, err := strconv.ParseBool(rec[colIsBold])
	if err != nil {
		return Line{}, fmt.Errorf("parsing is_bold %q: %w", rec[colIsBold], err)
	}
	current, err := decimal.NewFromString(rec[colCurrent])
	if err != nil {
		return Line{}, fmt.Errorf("parsing current %q: %w", rec[colCurrent], err)
	}
	l := Line{
		SortOrder:   order,
		NrRd:        rec[colNrRd],
		Description: rec[colDescription],
		RowType:     model.RowType(rec[colRowType]),
		IsBold:      bold,
		IndentLevel: indent,
		Current:     current,
		Trace:       rec[colTrace],
	}
	if s := strings.TrimSpace(rec[colPrior]); s != "" {
		prior, err := decimal.NewFromString(s)
		if err != nil {
			return Line{}, fmt.Errorf("parsing prior %q: %w", s, err)
		}
		l.Prior = prior
		l.HasPrior = true
	}
	return l, nil
}

// WriteCSV writes lines with a header row.
func WriteCSV(w io.Writer, lines []Line) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, l := range lines {
		if err := cw.Write(MarshalLine(l)); err != nil {
			return fmt.Errorf("writing line %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads lines written by WriteCSV.
func ReadCSV(r io.Reader) ([]Line, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading results CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}
	lines := make([]Line, 0, len(records)-1)
	for i, rec := range records[1:] {
		l, err := UnmarshalLine(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		lines = append(lines, l)
	}
	return lines, nil
}

// LoadCSV reads a results CSV from disk.
func LoadCSV(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening results: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// SaveCSV writes a results CSV to disk.
func SaveCSV(path string, lines []Line) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	if err := WriteCSV(f, lines); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
