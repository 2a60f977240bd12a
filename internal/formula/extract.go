// Package formula implements the Bilant formula language: extraction of
// account (CT) and row (RD) formulas from row descriptions, and their
// evaluation against a trial balance and previously computed rows.
package formula

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/cleared-dev/bilant/internal/id"
)

var (
	ctMarker   = regexp.MustCompile(`(?i)ct\.([^)]*)`)
	implicitCT = regexp.MustCompile(`\((\d{3,4})\)\s*$`)
	rdMarker   = regexp.MustCompile(`(?i)(?:rd\.|\(rd\s)([^)]*)`)
	rangeToken = regexp.MustCompile(`(?i)(\d+)la(\d+)`)
	hasDigit   = regexp.MustCompile(`\d`)
)

// rdRowAliases rewrites row ids found in spreadsheet-imported RD formulas.
// The older spreadsheet layout references row 35a where the official form
// numbers the same line 36. Only the loose extractor applies it.
var rdRowAliases = map[string]string{
	"35a": "36",
}

// ExtractCT returns the account formula embedded in a row description, or ""
// when the row has none. "1.Cheltuieli de constituire (ct.201-2801)" -> "201-2801".
// A description ending in a bare "(NNN)" or "(NNNN)" is read as that account.
func ExtractCT(text string) string {
	if m := ctMarker.FindStringSubmatch(text); m != nil {
		return compact(strings.ReplaceAll(m[1], "*", ""))
	}
	if m := implicitCT.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ExtractRD returns the row formula embedded in a description with any
// "NNlaMM" range expanded. "TOTAL (rd. 01 la 06)" -> "01+02+03+04+05+06".
// Captures without a digit are rejected so words containing "rd" do not
// produce formulas.
func ExtractRD(text string) string {
	raw, ok := captureRD(text)
	if !ok || !hasDigit.MatchString(raw) {
		return ""
	}
	return ExpandRanges(raw)
}

// ExtractRDLoose is the spreadsheet-import variant of ExtractRD: it accepts
// captures without digits and applies rdRowAliases to each referenced row.
func ExtractRDLoose(text string) string {
	raw, ok := captureRD(text)
	if !ok || raw == "" {
		return ""
	}
	return applyAliases(ExpandRanges(raw))
}

// ExpandRanges replaces each "NNlaMM" token with the "+"-joined ids from NN to
// MM. Tokens whose end precedes their start are left untouched.
func ExpandRanges(expr string) string {
	return rangeToken.ReplaceAllStringFunc(expr, func(tok string) string {
		m := rangeToken.FindStringSubmatch(tok)
		ids, ok := id.Range(m[1], m[2])
		if !ok {
			return tok
		}
		return strings.Join(ids, "+")
	})
}

func captureRD(text string) (string, bool) {
	m := rdMarker.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return compact(m[1]), true
}

func applyAliases(expr string) string {
	var b strings.Builder
	start := 0
	flush := func(end int) {
		ref := expr[start:end]
		if alias, ok := rdRowAliases[strings.ToLower(ref)]; ok {
			ref = alias
		}
		b.WriteString(ref)
	}
	for i := 0; i < len(expr); i++ {
		if expr[i] == '+' || expr[i] == '-' {
			flush(i)
			b.WriteByte(expr[i])
			start = i + 1
		}
	}
	flush(len(expr))
	return b.String()
}

// compact removes all whitespace, newlines included.
func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
