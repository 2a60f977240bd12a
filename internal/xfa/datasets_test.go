package xfa

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bilant/internal/model"
	"github.com/cleared-dev/bilant/internal/xfa/xfatest"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestReadValues(t *testing.T) {
	v, err := ReadValues([]byte(xfatest.DatasetsXML))
	require.NoError(t, err)
	assert.Equal(t, FormLarge, v.Form)

	r1 := v.Rows["1"]
	assert.True(t, r1.HasPrior)
	assert.True(t, r1.Prior.Equal(dec("5")))
	assert.False(t, r1.HasCurrent)

	r2 := v.Rows["2"]
	assert.False(t, r2.HasPrior, "unparseable cell is skipped")
	assert.True(t, r2.Current.Equal(dec("7")))

	_, ok := v.Rows["3"]
	assert.False(t, ok)

	assert.True(t, v.Current().Get("02").Equal(dec("7")))
	assert.True(t, v.Prior().Get("01").Equal(dec("5")))
}

func TestFillDatasets(t *testing.T) {
	current := model.NewValueMap()
	current.Set("01", dec("1234.5"))
	current.Set("02", dec("0.4"))
	current.Set("03", dec("-10"))
	prior := model.NewValueMap()
	prior.Set("01", dec("100"))

	out, report, err := FillDatasets([]byte(xfatest.DatasetsXML), current, prior)
	require.NoError(t, err)
	assert.Equal(t, FormLarge, report.Form)
	assert.Equal(t, 2, report.Current)
	assert.Equal(t, 1, report.Prior)

	s := string(out)
	assert.Contains(t, s, "<xfa:datasets")
	assert.Contains(t, s, "<xfa:data>")

	v, err := ReadValues(out)
	require.NoError(t, err)
	assert.True(t, v.Rows["1"].Current.Equal(dec("1235")))
	assert.True(t, v.Rows["1"].Prior.Equal(dec("100")))
	assert.True(t, v.Rows["2"].Current.Equal(dec("7")), "zero after rounding is not written")
	assert.True(t, v.Rows["3"].Current.Equal(dec("-10")))
}

func TestFillDatasets_NilPrior(t *testing.T) {
	current := model.NewValueMap()
	current.Set("1", dec("3"))
	_, report, err := FillDatasets([]byte(xfatest.DatasetsXML), current, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Current)
	assert.Equal(t, 0, report.Prior)
}

func TestFillDatasets_SmallForm(t *testing.T) {
	xml := strings.ReplaceAll(xfatest.DatasetsXML, "F10L", "F10S")
	current := model.NewValueMap()
	current.Set("2", dec("9"))
	out, report, err := FillDatasets([]byte(xml), current, nil)
	require.NoError(t, err)
	assert.Equal(t, FormSmall, report.Form)
	assert.Contains(t, string(out), "<C2>9</C2>")
}

func TestRound(t *testing.T) {
	assert.Equal(t, "3", Round(dec("2.5")).StringFixed(0))
	assert.Equal(t, "-3", Round(dec("-2.5")).StringFixed(0))
	assert.Equal(t, "2", Round(dec("2.49")).StringFixed(0))
}
