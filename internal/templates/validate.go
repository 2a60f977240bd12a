package templates

import (
	"fmt"

	"github.com/cleared-dev/bilant/internal/formula"
	"github.com/cleared-dev/bilant/internal/id"
)

// Validation rules.
const (
	RuleDuplicateID    = 1 // nr_rd used by more than one row
	RuleBothFormulas   = 2 // row has CT and RD; CT wins
	RuleUnknownRef     = 3 // RD references a row id the template does not define
	RuleForwardRef     = 4 // RD references an RD-only row evaluated later, which reads as zero
	RuleUnknownRowType = 5
)

// ValidationError describes a single rule violation.
type ValidationError struct {
	Rule        int
	NrRd        string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("rule %d [%s]: %s", e.Rule, e.NrRd, e.Description)
}

// Validate checks the template rows. Rows are examined in evaluation order.
func (t *Template) Validate() []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool)
	for _, r := range t.rows {
		if r.NrRd == "" {
			continue
		}
		key := id.Normalize(r.NrRd)
		if seen[key] {
			errs = append(errs, ValidationError{
				Rule:        RuleDuplicateID,
				NrRd:        r.NrRd,
				Description: "row id is used more than once",
			})
		}
		seen[key] = true
	}

	rdOnlyLater := make(map[string]bool)
	for _, r := range t.rows {
		if r.HasRD() && !r.HasCT() && r.NrRd != "" {
			rdOnlyLater[id.Normalize(r.NrRd)] = true
		}
	}

	for _, r := range t.rows {
		if !r.RowType.Valid() {
			errs = append(errs, ValidationError{
				Rule:        RuleUnknownRowType,
				NrRd:        r.NrRd,
				Description: fmt.Sprintf("unknown row type %q", r.RowType),
			})
		}

		if r.HasCT() && r.HasRD() {
			errs = append(errs, ValidationError{
				Rule:        RuleBothFormulas,
				NrRd:        r.NrRd,
				Description: fmt.Sprintf("row has both CT %q and RD %q; RD is ignored", r.FormulaCT, r.FormulaRD),
			})
		}

		if !r.HasRD() || r.HasCT() {
			continue
		}
		delete(rdOnlyLater, id.Normalize(r.NrRd))
		for _, ref := range formula.References(r.FormulaRD) {
			if !t.Exists(ref) {
				errs = append(errs, ValidationError{
					Rule:        RuleUnknownRef,
					NrRd:        r.NrRd,
					Description: fmt.Sprintf("references undefined row %s", ref),
				})
				continue
			}
			if rdOnlyLater[ref] {
				errs = append(errs, ValidationError{
					Rule:        RuleForwardRef,
					NrRd:        r.NrRd,
					Description: fmt.Sprintf("references total row %s which is computed later and reads as zero", ref),
				})
			}
		}
	}

	return errs
}
