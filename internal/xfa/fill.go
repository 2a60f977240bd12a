package xfa

import (
	"fmt"
	"log/slog"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bilant/internal/id"
	"github.com/cleared-dev/bilant/internal/model"
)

// FillReport counts the cells written by a fill.
type FillReport struct {
	Form    string
	Current int
	Prior   int
}

// FillDatasets writes current values into C2 and prior values into C1 of a
// datasets packet (or full XDP document) and returns the serialized XML.
// Only non-zero values, rounded to whole units, are written. prior may be
// nil. Namespace prefixes are kept as found.
func FillDatasets(data []byte, current, prior model.ValueMap) ([]byte, *FillReport, error) {
	doc, err := parseXML(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing XFA datasets: %w", err)
	}
	form, table, err := dataTable(doc.Root())
	if err != nil {
		return nil, nil, err
	}

	report := &FillReport{Form: form}
	for _, rowEl := range dataRows(table) {
		rowID, ok := id.FromTag(rowEl.Tag)
		if !ok {
			continue
		}
		if setCell(rowEl, colCurrent, current, rowID) {
			report.Current++
		}
		if setCell(rowEl, colPrior, prior, rowID) {
			report.Prior++
		}
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, nil, fmt.Errorf("serializing XFA datasets: %w", err)
	}
	slog.Debug("filled XFA datasets", "form", form, "current", report.Current, "prior", report.Prior)
	return out, report, nil
}

func setCell(rowEl *etree.Element, col string, values model.ValueMap, rowID string) bool {
	if values == nil || !values.Has(rowID) {
		return false
	}
	v := Round(values.Get(rowID))
	if v.IsZero() {
		return false
	}
	c := childByTag(rowEl, col)
	if c == nil {
		c = rowEl.CreateElement(col)
	}
	c.SetText(v.StringFixed(0))
	return true
}

// Round rounds an amount to whole units, halves away from zero.
func Round(v decimal.Decimal) decimal.Decimal {
	return v.Round(0)
}

// Fill fills the datasets packet of the document and returns a new PDF made
// of the original bytes plus an incremental update carrying the new stream.
func (d *Document) Fill(current, prior model.ValueMap) ([]byte, *FillReport, error) {
	if d.Encrypted() {
		return nil, nil, ErrEncrypted
	}
	p, err := d.Packet(PacketDatasets)
	if err != nil {
		return nil, nil, err
	}
	filled, report, err := FillDatasets(p.Data, current, prior)
	if err != nil {
		return nil, nil, err
	}
	out, err := d.appendRevision(p.Ref, filled)
	if err != nil {
		return nil, nil, fmt.Errorf("writing PDF update: %w", err)
	}
	return out, report, nil
}
