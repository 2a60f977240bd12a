// Package report turns resolver output into balance sheet lines and
// reads/writes them as CSV and XLSX.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bilant/internal/model"
	"github.com/cleared-dev/bilant/internal/resolver"
)

// Line is one row of a generated balance sheet.
type Line struct {
	SortOrder   int
	NrRd        string
	Description string
	RowType     model.RowType
	IsBold      bool
	IndentLevel int
	Current     decimal.Decimal
	Prior       decimal.Decimal
	HasPrior    bool
	Trace       string
}

// Build pairs the current period result with an optional prior period
// result computed over the same template. prior may be nil.
func Build(current, prior *resolver.Result) []Line {
	lines := make([]Line, 0, len(current.Rows))
	for _, rr := range current.Rows {
		l := Line{
			SortOrder:   rr.SortOrder,
			NrRd:        rr.NrRd,
			Description: rr.Row.Description,
			RowType:     rr.Row.RowType,
			IsBold:      rr.Row.IsBold,
			IndentLevel: rr.Row.IndentLevel,
			Current:     rr.Value,
			Trace:       rr.Trace,
		}
		if prior != nil && rr.NrRd != "" {
			if p, ok := prior.Lookup(rr.NrRd); ok {
				l.Prior = p.Value
				l.HasPrior = true
			}
		}
		lines = append(lines, l)
	}
	return lines
}

// CurrentValues returns the current amounts keyed by row id.
func CurrentValues(lines []Line) model.ValueMap {
	m := model.NewValueMap()
	for _, l := range lines {
		m.Set(l.NrRd, l.Current)
	}
	return m
}

// PriorValues returns the prior amounts of lines that carry one.
func PriorValues(lines []Line) model.ValueMap {
	m := model.NewValueMap()
	for _, l := range lines {
		if l.HasPrior {
			m.Set(l.NrRd, l.Prior)
		}
	}
	return m
}
