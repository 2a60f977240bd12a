package xfa

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bilant/internal/id"
	"github.com/cleared-dev/bilant/internal/model"
)

// Data cell tags inside a row: C1 holds the prior period, C2 the current.
const (
	colPrior   = "C1"
	colCurrent = "C2"
)

// Values are the per-row amounts found in a datasets packet, keyed by
// normalized row id.
type Values struct {
	Form string
	Rows map[string]model.PeriodValues
}

// Current returns the current period values as a ValueMap.
func (v *Values) Current() model.ValueMap {
	m := model.NewValueMap()
	for rowID, pv := range v.Rows {
		if pv.HasCurrent {
			m.Set(rowID, pv.Current)
		}
	}
	return m
}

// Prior returns the prior period values as a ValueMap.
func (v *Values) Prior() model.ValueMap {
	m := model.NewValueMap()
	for rowID, pv := range v.Rows {
		if pv.HasPrior {
			m.Set(rowID, pv.Prior)
		}
	}
	return m
}

// ReadValues reads C1/C2 values from a datasets packet. Empty or
// unparseable cells are skipped.
func ReadValues(data []byte) (*Values, error) {
	doc, err := parseXML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing XFA datasets: %w", err)
	}
	form, table, err := dataTable(doc.Root())
	if err != nil {
		return nil, err
	}

	v := &Values{Form: form, Rows: make(map[string]model.PeriodValues)}
	for _, rowEl := range dataRows(table) {
		rowID, ok := id.FromTag(rowEl.Tag)
		if !ok {
			continue
		}
		var pv model.PeriodValues
		pv.Prior, pv.HasPrior = cellValue(rowEl, colPrior)
		pv.Current, pv.HasCurrent = cellValue(rowEl, colCurrent)
		if pv.HasPrior || pv.HasCurrent {
			v.Rows[id.Normalize(rowID)] = pv
		}
	}
	return v, nil
}

// dataTable locates data -> form -> Table1 in a datasets packet.
func dataTable(root *etree.Element) (string, *etree.Element, error) {
	root = packetRoot(root, PacketDatasets)
	if data := findFirst(root, hasTag("data")); data != nil {
		root = data
	}
	form, formEl, err := detectForm(root, hasTag)
	if err != nil {
		return "", nil, err
	}
	table, err := findTable(formEl, hasTag)
	if err != nil {
		return "", nil, err
	}
	return form, table, nil
}

// dataRows returns the row elements of a data table: tags starting with R,
// excluding the header row and nested form nodes.
func dataRows(table *etree.Element) []*etree.Element {
	var rows []*etree.Element
	for _, el := range table.ChildElements() {
		if !strings.HasPrefix(el.Tag, "R") || el.Tag == "RGOL" || strings.HasPrefix(el.Tag, "F10") {
			continue
		}
		rows = append(rows, el)
	}
	return rows
}

func cellValue(rowEl *etree.Element, col string) (decimal.Decimal, bool) {
	c := childByTag(rowEl, col)
	if c == nil {
		return decimal.Zero, false
	}
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		slog.Debug("skipping unparseable XFA value", "row", rowEl.Tag, "col", col, "value", text)
		return decimal.Zero, false
	}
	return d, true
}
