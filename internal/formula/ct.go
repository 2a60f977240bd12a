package formula

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bilant/internal/model"
)

const (
	dynamicMarker = "+/-"
	fromMarker    = "dinct."

	// NoValue marks a CT prefix that matched no trial-balance account.
	NoValue = "No Val."
)

// ParseCT tokenizes an account formula in one left-to-right pass.
//
//	"+/-NNN"     -> (NNN, dynamic)
//	"dinct.NNN"  -> (NNN, minus)
//	"NNN"        -> (NNN, running sign), sign resets to plus afterwards
//	"+", "-"     -> set the running sign
//
// Blanks between a marker and its account are allowed. Every other character
// is skipped, so ParseCT never fails.
func ParseCT(expr string) []model.FormulaToken {
	var tokens []model.FormulaToken
	sign := model.SignPlus

	for i := 0; i < len(expr); {
		switch {
		case strings.HasPrefix(expr[i:], dynamicMarker):
			start := skipSpace(expr, i+len(dynamicMarker))
			digits := digitRun(expr, start)
			if digits == "" {
				i += len(dynamicMarker)
				continue
			}
			tokens = append(tokens, model.FormulaToken{Prefix: digits, Sign: model.SignDynamic})
			i = start + len(digits)
			sign = model.SignPlus
		case hasPrefixFold(expr[i:], fromMarker):
			start := skipSpace(expr, i+len(fromMarker))
			digits := digitRun(expr, start)
			if digits == "" {
				i += len(fromMarker)
				continue
			}
			tokens = append(tokens, model.FormulaToken{Prefix: digits, Sign: model.SignMinus})
			i = start + len(digits)
			sign = model.SignPlus
		case isDigit(expr[i]):
			digits := digitRun(expr, i)
			tokens = append(tokens, model.FormulaToken{Prefix: digits, Sign: sign})
			i += len(digits)
			sign = model.SignPlus
		case expr[i] == '+':
			sign = model.SignPlus
			i++
		case expr[i] == '-':
			sign = model.SignMinus
			i++
		default:
			i++
		}
	}
	return tokens
}

// Match is one trial-balance account folded into a CT token.
type Match struct {
	Account      string
	Contribution decimal.Decimal // signed
}

// TokenResult is the evaluation of a single CT token.
type TokenResult struct {
	Token   model.FormulaToken
	Matches []Match
	Total   decimal.Decimal // signed
}

// Evaluation is the result of evaluating a whole CT formula.
type Evaluation struct {
	Value     decimal.Decimal
	Tokens    []TokenResult
	Unmatched []string // prefixes that matched no account
}

// Trace renders the evaluation for human verification:
// "+201: 2013=1500.00, 2018=20.00; -2801: No Val."
func (e Evaluation) Trace() string {
	parts := make([]string, 0, len(e.Tokens))
	for _, tr := range e.Tokens {
		if len(tr.Matches) == 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", tr.Token, NoValue))
			continue
		}
		accts := make([]string, len(tr.Matches))
		for i, m := range tr.Matches {
			accts[i] = fmt.Sprintf("%s=%s", m.Account, m.Contribution.StringFixed(2))
		}
		parts = append(parts, fmt.Sprintf("%s: %s", tr.Token, strings.Join(accts, ", ")))
	}
	return strings.Join(parts, "; ")
}

// EvaluateCT evaluates an account formula against a trial balance.
// Accounts are selected by textual prefix of their cleaned code, so "201"
// matches "2013" but not "3015". Plus and minus tokens contribute the gross
// |debit| + |credit|; dynamic tokens contribute the net debit - credit.
func EvaluateCT(expr string, balance []model.TrialBalanceRow) Evaluation {
	return EvaluateTokens(ParseCT(expr), balance)
}

// EvaluateTokens is EvaluateCT over already parsed tokens.
func EvaluateTokens(tokens []model.FormulaToken, balance []model.TrialBalanceRow) Evaluation {
	ev := Evaluation{Value: decimal.Zero}
	for _, tok := range tokens {
		tr := TokenResult{Token: tok, Total: decimal.Zero}
		for _, row := range balance {
			acct := row.Account()
			if !strings.HasPrefix(acct, tok.Prefix) {
				continue
			}
			c := contribution(tok.Sign, row)
			tr.Matches = append(tr.Matches, Match{Account: acct, Contribution: c})
			tr.Total = tr.Total.Add(c)
		}
		if len(tr.Matches) == 0 {
			ev.Unmatched = append(ev.Unmatched, tok.Prefix)
			slog.Debug("CT prefix matched no account", "prefix", tok.Prefix)
		}
		ev.Value = ev.Value.Add(tr.Total)
		ev.Tokens = append(ev.Tokens, tr)
	}
	return ev
}

func contribution(sign model.SignKind, row model.TrialBalanceRow) decimal.Decimal {
	switch sign {
	case model.SignDynamic:
		return row.Debit.Sub(row.Credit)
	case model.SignMinus:
		return row.Debit.Abs().Add(row.Credit.Abs()).Neg()
	default:
		return row.Debit.Abs().Add(row.Credit.Abs())
	}
}

func digitRun(s string, from int) string {
	end := from
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	return s[from:end]
}

func skipSpace(s string, from int) int {
	for from < len(s) && (s[from] == ' ' || s[from] == '\t' || s[from] == '\n' || s[from] == '\r') {
		from++
	}
	return from
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
