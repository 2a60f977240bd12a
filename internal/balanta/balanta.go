// Package balanta reads trial balances (account, debit, credit) from
// spreadsheet exports.
package balanta

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bilant/internal/model"
)

// Parser converts a Balanta export into trial-balance rows.
type Parser interface {
	Parse(r io.Reader) ([]model.TrialBalanceRow, error)
	Format() string
}

// Registry holds parsers keyed by format.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// ForPath returns the parser matching a file's extension, or nil.
func (r *Registry) ForPath(path string) Parser {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return r.Get(ext)
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{})
	r.Register(&XLSXParser{})
	return r
}

// Load opens path and parses it with the parser for its extension.
func Load(path string) ([]model.TrialBalanceRow, error) {
	p := DefaultRegistry().ForPath(path)
	if p == nil {
		return nil, fmt.Errorf("unsupported balanta format %q", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening balanta: %w", err)
	}
	defer f.Close()

	rows, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

const (
	colAccount = 0
	colDebit   = 1
	colCredit  = 2
	headerCell = "cont"
)

// fromRecords converts positional records into trial-balance rows. A header
// row ("Cont" in the first cell) and rows without an account are skipped;
// unreadable amounts count as zero.
func fromRecords(records [][]string) []model.TrialBalanceRow {
	var rows []model.TrialBalanceRow
	for i, rec := range records {
		acct := model.CleanAccountCode(cell(rec, colAccount))
		if acct == "" {
			continue
		}
		if i == 0 && strings.EqualFold(acct, headerCell) {
			continue
		}
		rows = append(rows, model.TrialBalanceRow{
			AccountCode: acct,
			Debit:       amount(rec, colDebit, i+1),
			Credit:      amount(rec, colCredit, i+1),
		})
	}
	return rows
}

func cell(rec []string, col int) string {
	if col >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[col])
}

func amount(rec []string, col, line int) decimal.Decimal {
	raw := cell(rec, col)
	d, ok := ParseAmount(raw)
	if !ok && raw != "" {
		slog.Debug("unreadable balanta amount, using zero", "line", line, "column", col+1, "value", raw)
	}
	return d
}

// ParseAmount reads a balance cell. Both "1,234.56" and the Romanian
// "1.234,56" are accepted. Blank or unparsable cells yield zero and ok=false.
func ParseAmount(s string) (d decimal.Decimal, ok bool) {
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' || r == '\t' {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Zero, false
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
