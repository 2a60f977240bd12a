package resolver

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bilant/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func balance() []model.TrialBalanceRow {
	return []model.TrialBalanceRow{
		{AccountCode: "2011.0", Debit: dec("1000"), Credit: dec("0")},
		{AccountCode: "2801", Debit: dec("0"), Credit: dec("250")},
		{AccountCode: "2131", Debit: dec("500"), Credit: dec("0")},
		{AccountCode: "5121", Debit: dec("300"), Credit: dec("0")},
		{AccountCode: "5124", Debit: dec("0"), Credit: dec("50")},
	}
}

func TestResolve_TwoPass(t *testing.T) {
	rows := []model.TemplateRow{
		{Description: "Cheltuieli de constituire", NrRd: "01", FormulaCT: "201-2801", SortOrder: 1},
		{Description: "Instalatii", NrRd: "02", FormulaCT: "213", SortOrder: 2},
		{Description: "TOTAL", NrRd: "03", FormulaRD: "01+02", SortOrder: 3},
		{Description: "Casa si conturi", NrRd: "04", FormulaCT: "+/-512", SortOrder: 4},
		{Description: "TOTAL GENERAL", NrRd: "05", FormulaRD: "03+04", SortOrder: 5},
	}

	res := Resolve(rows, balance())
	require.Len(t, res.Rows, 5)

	assert.True(t, res.Values.Get("01").Equal(dec("750")))
	assert.True(t, res.Values.Get("02").Equal(dec("500")))
	assert.True(t, res.Values.Get("03").Equal(dec("1250")))
	assert.True(t, res.Values.Get("04").Equal(dec("250")))
	assert.True(t, res.Values.Get("05").Equal(dec("1500")))

	assert.Equal(t, "Sum of rows: 01+02", res.Rows[2].Trace)
	assert.Equal(t, "+201: 2011=1000.00; -2801: 2801=-250.00", res.Rows[0].Trace)
	assert.Empty(t, res.ForwardRefs)
}

func TestResolve_RDBeforeCTInDeclarationOrder(t *testing.T) {
	// The total is declared first but still sees the CT rows.
	rows := []model.TemplateRow{
		{Description: "TOTAL", NrRd: "10", FormulaRD: "11-12", SortOrder: 1},
		{Description: "A", NrRd: "11", FormulaCT: "213", SortOrder: 2},
		{Description: "B", NrRd: "12", FormulaCT: "201", SortOrder: 3},
	}
	res := Resolve(rows, balance())
	assert.True(t, res.Values.Get("10").Equal(dec("-500")), "got %s", res.Values.Get("10"))
	assert.True(t, res.Rows[0].Value.Equal(dec("-500")))
}

func TestResolve_SortOrderNotInputOrder(t *testing.T) {
	rows := []model.TemplateRow{
		{NrRd: "02", FormulaRD: "01", SortOrder: 20},
		{NrRd: "01", FormulaCT: "213", SortOrder: 10},
	}
	res := Resolve(rows, balance())
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "01", res.Rows[0].NrRd)
	assert.Equal(t, "02", res.Rows[1].NrRd)
	assert.Equal(t, 20, rows[0].SortOrder, "input is not reordered")
}

func TestResolve_ForwardRDReferenceIsZero(t *testing.T) {
	rows := []model.TemplateRow{
		{NrRd: "01", FormulaCT: "213", SortOrder: 1},
		{NrRd: "02", FormulaRD: "03", SortOrder: 2},
		{NrRd: "03", FormulaRD: "01", SortOrder: 3},
		{NrRd: "04", FormulaRD: "03+01", SortOrder: 4},
	}
	res := Resolve(rows, balance())

	assert.True(t, res.Values.Get("02").IsZero(), "forward reference resolves to zero")
	assert.True(t, res.Values.Get("03").Equal(dec("500")))
	assert.True(t, res.Values.Get("04").Equal(dec("1000")), "backward RD reference sees the pass-2 value")
	assert.Equal(t, []ForwardRef{{From: "02", To: "3"}}, res.ForwardRefs)
}

func TestResolve_CTWinsOverRD(t *testing.T) {
	rows := []model.TemplateRow{
		{NrRd: "01", FormulaCT: "213", SortOrder: 1},
		{NrRd: "02", FormulaCT: "5121", FormulaRD: "01", SortOrder: 2},
	}
	res := Resolve(rows, balance())
	assert.True(t, res.Values.Get("02").Equal(dec("300")))
	assert.NotContains(t, res.Rows[1].Trace, RDTracePrefix)
}

func TestResolve_RowsWithoutFormulas(t *testing.T) {
	rows := []model.TemplateRow{
		{Description: "ACTIVE IMOBILIZATE", RowType: model.RowTypeSection, SortOrder: 1},
		{Description: "Fara formula", NrRd: "07", SortOrder: 2},
	}
	res := Resolve(rows, balance())
	require.Len(t, res.Rows, 2)
	for _, rr := range res.Rows {
		assert.True(t, rr.Value.IsZero())
		assert.Empty(t, rr.Trace)
	}
	assert.False(t, res.Values.Has("07"))
}

func TestResolve_UnmatchedPrefixes(t *testing.T) {
	rows := []model.TemplateRow{
		{NrRd: "01", FormulaCT: "213+267", SortOrder: 1},
	}
	res := Resolve(rows, balance())
	assert.Equal(t, map[string][]string{"01": {"267"}}, res.Unmatched)
	assert.Contains(t, res.Rows[0].Trace, "+267: No Val.")
}

func TestResolve_UnmatchedPrefixesSharedID(t *testing.T) {
	rows := []model.TemplateRow{
		{Description: "Cheltuieli in avans (ct. 471)", FormulaCT: "471", SortOrder: 1},
		{Description: "Venituri in avans (ct. 472)", FormulaCT: "472", SortOrder: 2},
		{NrRd: "09", FormulaCT: "213+267", SortOrder: 3},
		{NrRd: "09", FormulaCT: "268", SortOrder: 4},
	}
	res := Resolve(rows, balance())
	assert.Equal(t, map[string][]string{
		"":   {"471", "472"},
		"09": {"267", "268"},
	}, res.Unmatched)
	assert.Equal(t, 4, res.UnmatchedCount())
}

func TestResult_Lookup(t *testing.T) {
	rows := []model.TemplateRow{{NrRd: "01", FormulaCT: "213", SortOrder: 1}}
	res := Resolve(rows, balance())

	rr, ok := res.Lookup("1")
	require.True(t, ok)
	assert.True(t, rr.Value.Equal(dec("500")))

	_, ok = res.Lookup("99")
	assert.False(t, ok)
}
