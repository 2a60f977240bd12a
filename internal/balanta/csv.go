package balanta

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/bilant/internal/model"
)

// CSVParser parses Balanta CSV exports. The delimiter is ';' when the first
// line has at least as many ';' as ',', otherwise ','.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads a CSV Balanta.
func (p *CSVParser) Parse(r io.Reader) ([]model.TrialBalanceRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading balanta CSV: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.Comma = sniffDelimiter(data)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading balanta CSV: %w", err)
	}
	return fromRecords(records), nil
}

func sniffDelimiter(data []byte) rune {
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	semis := bytes.Count(first, []byte{';'})
	if semis > 0 && semis >= bytes.Count(first, []byte{','}) {
		return ';'
	}
	return ','
}
