package model

// RowType classifies a balance-sheet template row.
type RowType string

const (
	RowTypeData          RowType = "data"
	RowTypeTotal         RowType = "total"
	RowTypeSection       RowType = "section"
	RowTypeSectionHeader RowType = "section_header"
	RowTypeSeparator     RowType = "separator"
)

// Valid reports whether t is one of the known row types.
func (t RowType) Valid() bool {
	switch t {
	case RowTypeData, RowTypeTotal, RowTypeSection, RowTypeSectionHeader, RowTypeSeparator:
		return true
	}
	return false
}

// TemplateRow is one line of a Bilant template.
type TemplateRow struct {
	Description string
	NrRd        string // official row id, e.g. "01", "35a"; empty for headings
	FormulaCT   string // account formula, e.g. "201-2801"
	FormulaRD   string // row formula, e.g. "01+02+03"
	RowType     RowType
	IsBold      bool
	IndentLevel int
	SortOrder   int // display and evaluation order
}

// HasCT reports whether the row carries an account formula.
func (r TemplateRow) HasCT() bool { return r.FormulaCT != "" }

// HasRD reports whether the row carries a row formula.
func (r TemplateRow) HasRD() bool { return r.FormulaRD != "" }
