package model

// SignKind tells the CT evaluator how to fold an account into a row value.
type SignKind string

const (
	SignPlus    SignKind = "plus"    // add |debit| + |credit|
	SignMinus   SignKind = "minus"   // subtract |debit| + |credit|
	SignDynamic SignKind = "dynamic" // add debit - credit as-is
)

// FormulaToken is one account reference of a CT formula.
type FormulaToken struct {
	Prefix string
	Sign   SignKind
}

// String renders the token the way it is shown in verification traces.
func (t FormulaToken) String() string {
	switch t.Sign {
	case SignMinus:
		return "-" + t.Prefix
	case SignDynamic:
		return "+/-" + t.Prefix
	default:
		return "+" + t.Prefix
	}
}
