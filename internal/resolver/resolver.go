// Package resolver computes Bilant row values from a template and a trial
// balance in two passes: account formulas first, then row totals.
package resolver

import (
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bilant/internal/formula"
	"github.com/cleared-dev/bilant/internal/id"
	"github.com/cleared-dev/bilant/internal/model"
)

// RDTracePrefix starts the trace of every row computed from an RD formula.
const RDTracePrefix = "Sum of rows: "

// ForwardRef records an RD row reading another RD-only row that is computed
// later in the same pass, and so contributed zero.
type ForwardRef struct {
	From string // nr_rd of the reading row
	To   string // nr_rd of the referenced row
}

// Result is the output of one generation run.
type Result struct {
	Rows        []model.RowResult // in sort order
	Values      model.ValueMap
	Unmatched   map[string][]string // nr_rd -> CT prefixes with no account, in sort order
	ForwardRefs []ForwardRef
}

// Resolve evaluates rows against balance. rows is not modified; evaluation
// follows SortOrder, ties keep their input order.
//
// Pass 1 evaluates every row with a CT formula. Pass 2 evaluates rows that
// have an RD formula and no CT formula against the values of pass 1 and the
// RD rows already computed before them.
func Resolve(rows []model.TemplateRow, balance []model.TrialBalanceRow) *Result {
	ordered := append([]model.TemplateRow(nil), rows...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].SortOrder < ordered[j].SortOrder })

	res := &Result{
		Rows:      make([]model.RowResult, len(ordered)),
		Values:    model.NewValueMap(),
		Unmatched: make(map[string][]string),
	}

	for i, row := range ordered {
		rr := model.RowResult{Row: row, NrRd: row.NrRd, Value: decimal.Zero, SortOrder: row.SortOrder}
		if row.HasCT() {
			ev := formula.EvaluateCT(row.FormulaCT, balance)
			rr.Value = ev.Value
			rr.Trace = ev.Trace()
			res.Values.Set(row.NrRd, ev.Value)
			if len(ev.Unmatched) > 0 {
				res.Unmatched[row.NrRd] = append(res.Unmatched[row.NrRd], ev.Unmatched...)
			}
		}
		res.Rows[i] = rr
	}

	pending := rdOnlyRows(ordered)
	for i, row := range ordered {
		if !row.HasRD() || row.HasCT() {
			continue
		}
		delete(pending, id.Normalize(row.NrRd))
		for _, ref := range formula.References(row.FormulaRD) {
			if pending[ref] {
				res.ForwardRefs = append(res.ForwardRefs, ForwardRef{From: row.NrRd, To: ref})
				slog.Warn("RD formula references a row computed later; it counts as zero",
					"row", row.NrRd, "ref", ref)
			}
		}
		v := formula.EvaluateRD(row.FormulaRD, res.Values)
		res.Rows[i].Value = v
		res.Rows[i].Trace = RDTracePrefix + row.FormulaRD
		res.Values.Set(row.NrRd, v)
	}

	return res
}

// rdOnlyRows returns the normalized ids of rows computed in pass 2.
func rdOnlyRows(rows []model.TemplateRow) map[string]bool {
	ids := make(map[string]bool)
	for _, row := range rows {
		if row.HasRD() && !row.HasCT() && row.NrRd != "" {
			ids[id.Normalize(row.NrRd)] = true
		}
	}
	return ids
}

// UnmatchedCount returns the number of CT prefixes that matched no account.
func (r *Result) UnmatchedCount() int {
	n := 0
	for _, prefixes := range r.Unmatched {
		n += len(prefixes)
	}
	return n
}

// Lookup returns the result of the row with the given id.
func (r *Result) Lookup(nrRd string) (model.RowResult, bool) {
	key := id.Normalize(nrRd)
	for _, rr := range r.Rows {
		if rr.NrRd != "" && id.Normalize(rr.NrRd) == key {
			return rr, true
		}
	}
	return model.RowResult{}, false
}
