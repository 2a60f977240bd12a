package xfa

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"

	"github.com/cleared-dev/bilant/internal/formula"
	"github.com/cleared-dev/bilant/internal/id"
	"github.com/cleared-dev/bilant/internal/model"
	"github.com/cleared-dev/bilant/internal/templates"
)

// Extraction is the result of reading an XFA template.
type Extraction struct {
	Form string
	Rows []model.TemplateRow
}

// ExtractTemplate reads the balance sheet rows out of an XFA template
// packet (or a full XDP document). The form is auto-detected.
func ExtractTemplate(data []byte) (*Extraction, error) {
	doc, err := parseXML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing XFA template: %w", err)
	}
	root := packetRoot(doc.Root(), PacketTemplate)

	form, formEl, err := detectForm(root, hasName)
	if err != nil {
		return nil, err
	}
	table, err := findTable(formEl, hasName)
	if err != nil {
		return nil, err
	}

	ex := &Extraction{Form: form}
	order := 0
	for _, rowEl := range table.ChildElements() {
		if rowEl.Tag != "subform" || !isRowName(rowEl.SelectAttrValue("name", "")) {
			continue
		}
		row, ok := extractRow(rowEl)
		if !ok {
			continue
		}
		order++
		row.SortOrder = order
		ex.Rows = append(ex.Rows, row)
	}
	slog.Debug("extracted XFA template", "form", form, "rows", len(ex.Rows))
	return ex, nil
}

func isRowName(name string) bool {
	return strings.HasPrefix(name, "R") && name != "RGOL"
}

// cell is a draw or field element of a row with its extracted text.
type cell struct {
	name string
	text string
	bold bool
}

// rowState accumulates what the classifiers assign.
type rowState struct {
	description string
	fromCell1   bool
	rowID       string
	bold        bool
}

// classifier assigns a cell to a row field. The first classifier whose
// match returns true handles the cell.
type classifier struct {
	name  string
	match func(c cell, st *rowState) bool
	apply func(c cell, st *rowState)
}

var numericLooking = regexp.MustCompile(`^\d+[a-z]?$`)

// longText is the rune count above which unnamed text is a description even
// when it looks numeric.
const longText = 5

var classifiers = []classifier{
	{
		name:  "Cell1 description",
		match: func(c cell, st *rowState) bool { return c.name == "Cell1" && !st.fromCell1 },
		apply: func(c cell, st *rowState) {
			st.description = c.text
			st.fromCell1 = true
		},
	},
	{
		name: "Cell2 row id",
		match: func(c cell, st *rowState) bool {
			return c.name == "Cell2" && st.rowID == "" && id.IsRowID(strings.ToLower(c.text))
		},
		apply: func(c cell, st *rowState) { st.rowID = strings.ToLower(c.text) },
	},
	{
		name: "unnamed description",
		match: func(c cell, st *rowState) bool {
			if c.name != "" || st.description != "" {
				return false
			}
			return utf8.RuneCountInString(c.text) > longText || !numericLooking.MatchString(strings.ToLower(c.text))
		},
		apply: func(c cell, st *rowState) { st.description = c.text },
	},
	{
		name: "unnamed row id",
		match: func(c cell, st *rowState) bool {
			return c.name == "" && st.rowID == "" && numericLooking.MatchString(strings.ToLower(c.text))
		},
		apply: func(c cell, st *rowState) { st.rowID = strings.ToLower(c.text) },
	},
}

func classify(cells []cell) rowState {
	var st rowState
	for _, c := range cells {
		if c.bold {
			st.bold = true
		}
		if c.text == "" {
			continue
		}
		for _, cl := range classifiers {
			if cl.match(c, &st) {
				cl.apply(c, &st)
				break
			}
		}
	}
	return st
}

// extractRow builds a template row from a row subform. Rows with neither a
// description nor a row id are skipped.
func extractRow(rowEl *etree.Element) (model.TemplateRow, bool) {
	var cells []cell
	for _, el := range rowEl.ChildElements() {
		if el.Tag != "draw" && el.Tag != "field" {
			continue
		}
		cells = append(cells, cell{
			name: el.SelectAttrValue("name", ""),
			text: elementText(el),
			bold: isBold(el),
		})
	}

	st := classify(cells)
	if st.description == "" && st.rowID == "" {
		return model.TemplateRow{}, false
	}

	row := model.TemplateRow{
		Description: st.description,
		NrRd:        st.rowID,
		FormulaCT:   formula.ExtractCT(st.description),
		FormulaRD:   formula.ExtractRD(st.description),
		IsBold:      st.bold,
	}

	templates.SetRowType(&row)
	return row, true
}
