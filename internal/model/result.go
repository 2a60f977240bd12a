package model

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bilant/internal/id"
)

// RowResult is the computed value of one template row.
type RowResult struct {
	Row       TemplateRow
	NrRd      string
	Value     decimal.Decimal
	Trace     string // human-readable verification of the value
	SortOrder int
}

// ValueMap maps row ids to computed values. Keys are normalized so "01" and
// "1" address the same row.
type ValueMap map[string]decimal.Decimal

// NewValueMap returns an empty ValueMap.
func NewValueMap() ValueMap {
	return make(ValueMap)
}

// Set stores v under the normalized form of rowID. Empty ids are ignored.
func (m ValueMap) Set(rowID string, v decimal.Decimal) {
	key := id.Normalize(rowID)
	if key == "" {
		return
	}
	m[key] = v
}

// Get returns the value stored for rowID, or zero when the row is unknown.
func (m ValueMap) Get(rowID string) decimal.Decimal {
	v, ok := m[id.Normalize(rowID)]
	if !ok {
		return decimal.Zero
	}
	return v
}

// Has reports whether a value was stored for rowID.
func (m ValueMap) Has(rowID string) bool {
	_, ok := m[id.Normalize(rowID)]
	return ok
}

// Keys returns the normalized row ids in numeric-then-suffix order.
func (m ValueMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return id.Less(keys[i], keys[j]) })
	return keys
}

// PeriodValues holds the two value columns of an official form row.
type PeriodValues struct {
	Prior      decimal.Decimal // C1
	Current    decimal.Decimal // C2
	HasPrior   bool
	HasCurrent bool
}
