package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCT(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"marker", "1.Cheltuieli de constituire (ct.201-2801)", "201-2801"},
		{"spaces and stars", "Terenuri si constructii (ct. 211 + 212* - 2811 - 2812)", "211+212-2811-2812"},
		{"newlines", "Casa si conturi\nla banci (ct.5311 +\n +/-512)", "5311++/-512"},
		{"upper case", "Stocuri (CT.301+302)", "301+302"},
		{"no closing paren", "Avansuri ct.4091", "4091"},
		{"din ct", "Clienti (ct.4111 - 491 din ct.4118)", "4111-491dinct.4118"},
		{"implicit", "Capital subscris varsat (1012)", "1012"},
		{"implicit trailing space", "Capital subscris nevarsat (1011) ", "1011"},
		{"implicit too short", "Ceva (12)", ""},
		{"none", "ACTIVE IMOBILIZATE", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCT(tt.text))
		})
	}
}

func TestExtractRD(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"range", "TOTAL (rd. 01 la 06)", "01+02+03+04+05+06"},
		{"single range", "X (rd.05la05)", "05"},
		{"reverse range untouched", "X (rd.06 la 01)", "06la01"},
		{"sum", "ACTIVE CIRCULANTE - TOTAL (rd.10+11+12)", "10+11+12"},
		{"mixed", "CAPITALURI (rd. 01 la 03 - 04)", "01+02+03-04"},
		{"paren rd space", "Total (rd 13+14)", "13+14"},
		{"no digits rejected", "Standard (rd. total)", ""},
		{"word containing rd", "Datorii comerciale - furnizori", ""},
		{"none", "Imobilizari necorporale", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractRD(tt.text))
		})
	}
}

func TestExtractRDLoose(t *testing.T) {
	assert.Equal(t, "30+31+36", ExtractRDLoose("Total (rd.30+31+35a)"))
	assert.Equal(t, "36-37", ExtractRDLoose("Total (rd.35A-37)"))
	assert.Equal(t, "total", ExtractRDLoose("Standard (rd. total)"), "loose variant does not require digits")
	assert.Equal(t, "01+02+03", ExtractRDLoose("TOTAL (rd. 01 la 03)"))
	assert.Equal(t, "", ExtractRDLoose("nothing here"))
}

func TestExpandRanges(t *testing.T) {
	assert.Equal(t, "01+02+03+04+05+06", ExpandRanges("01la06"))
	assert.Equal(t, "05", ExpandRanges("05la05"))
	assert.Equal(t, "06la01", ExpandRanges("06la01"))
	assert.Equal(t, "08+09+10-20", ExpandRanges("08la10-20"))
	assert.Equal(t, "01+02+05+06", ExpandRanges("01LA02+05la06"))
}
