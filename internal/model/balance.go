package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account line of a Balanta.
type TrialBalanceRow struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Account returns the account code with the spreadsheet ".0" artifact removed.
// "5121.0" -> "5121"
func (r TrialBalanceRow) Account() string {
	return CleanAccountCode(r.AccountCode)
}

// CleanAccountCode trims whitespace and a trailing literal ".0".
func CleanAccountCode(code string) string {
	code = strings.TrimSpace(code)
	return strings.TrimSuffix(code, ".0")
}
