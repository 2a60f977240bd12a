package formula

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bilant/internal/model"
)

var rdRef = regexp.MustCompile(`^0*(\d+[a-z]*)$`)

// RDTerm is one signed row reference of an RD formula.
type RDTerm struct {
	RowID    string // normalized, leading zeros stripped
	Negative bool
}

// ParseRD splits a row formula on "+" and "-". References that are not
// digits followed by optional letters are dropped.
func ParseRD(expr string) []RDTerm {
	var terms []RDTerm
	negative := false
	start := 0
	// The trailing "+" flushes the final reference.
	expr = strings.ToLower(expr) + "+"
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if c != '+' && c != '-' {
			continue
		}
		ref := strings.TrimSpace(expr[start:i])
		if m := rdRef.FindStringSubmatch(ref); m != nil {
			terms = append(terms, RDTerm{RowID: m[1], Negative: negative})
		}
		negative = c == '-'
		start = i + 1
	}
	return terms
}

// EvaluateRD sums the referenced rows of values. Rows not yet present
// resolve to zero.
func EvaluateRD(expr string, values model.ValueMap) decimal.Decimal {
	total := decimal.Zero
	for _, t := range ParseRD(expr) {
		v := values.Get(t.RowID)
		if t.Negative {
			total = total.Sub(v)
		} else {
			total = total.Add(v)
		}
	}
	return total
}

// References returns the normalized row ids an RD formula reads.
func References(expr string) []string {
	terms := ParseRD(expr)
	ids := make([]string, len(terms))
	for i, t := range terms {
		ids[i] = t.RowID
	}
	return ids
}
