package xfa

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bilant/internal/model"
	"github.com/cleared-dev/bilant/internal/xfa/xfatest"
)

func TestExtractTemplate(t *testing.T) {
	ex, err := ExtractTemplate([]byte(xfatest.TemplateXML))
	require.NoError(t, err)
	assert.Equal(t, FormLarge, ex.Form)
	require.Len(t, ex.Rows, 4)

	section := ex.Rows[0]
	assert.Equal(t, "A. ACTIVE IMOBILIZATE", section.Description)
	assert.Equal(t, model.RowTypeSection, section.RowType)
	assert.True(t, section.IsBold)
	assert.Empty(t, section.NrRd)
	assert.Equal(t, 0, section.IndentLevel)
	assert.Equal(t, 1, section.SortOrder)

	data := ex.Rows[1]
	assert.Equal(t, "01", data.NrRd)
	assert.Equal(t, "201+203-2801", data.FormulaCT)
	assert.Empty(t, data.FormulaRD)
	assert.Equal(t, model.RowTypeData, data.RowType)
	assert.Equal(t, 1, data.IndentLevel)
	assert.False(t, data.IsBold)

	rich := ex.Rows[2]
	assert.Equal(t, "Imobilizari corporale (ct. 211+212)", rich.Description)
	assert.Equal(t, "211+212", rich.FormulaCT)
	assert.Equal(t, "02", rich.NrRd)

	total := ex.Rows[3]
	assert.Equal(t, "03", total.NrRd)
	assert.Equal(t, "01+02", total.FormulaRD)
	assert.Equal(t, model.RowTypeTotal, total.RowType)
	assert.True(t, total.IsBold)
	assert.Equal(t, 0, total.IndentLevel)
	assert.Equal(t, 4, total.SortOrder)
}

func TestExtractTemplate_SmallFormFallback(t *testing.T) {
	xml := strings.Replace(xfatest.TemplateXML, `name="F10L"`, `name="F10S"`, 1)
	ex, err := ExtractTemplate([]byte(xml))
	require.NoError(t, err)
	assert.Equal(t, FormSmall, ex.Form)
	assert.Len(t, ex.Rows, 4)
}

func TestExtractTemplate_MissingForm(t *testing.T) {
	xml := strings.Replace(xfatest.TemplateXML, `name="F10L"`, `name="F20"`, 1)
	_, err := ExtractTemplate([]byte(xml))
	require.Error(t, err)
	var se *StructuralError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Node, "F10L")
}

func TestExtractTemplate_MissingTable(t *testing.T) {
	xml := strings.Replace(xfatest.TemplateXML, `name="Table1"`, `name="Table9"`, 1)
	_, err := ExtractTemplate([]byte(xml))
	var se *StructuralError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Table1", se.Node)
}

func TestExtractTemplate_FullXDP(t *testing.T) {
	xdp := `<xdp:xdp xmlns:xdp="http://ns.adobe.com/xdp/">` + xfatest.TemplateXML + xfatest.DatasetsXML + `</xdp:xdp>`
	ex, err := ExtractTemplate([]byte(xdp))
	require.NoError(t, err)
	assert.Len(t, ex.Rows, 4)
}

func TestExtractTemplate_ConfigPacketFirst(t *testing.T) {
	xdp := `<xdp:xdp xmlns:xdp="http://ns.adobe.com/xdp/">` +
		`<config xmlns="http://www.xfa.org/schema/xci/3.0/"><acrobat><common>` +
		`<template><base>x</base></template>` +
		`</common></acrobat></config>` +
		xfatest.TemplateXML + xfatest.DatasetsXML + `</xdp:xdp>`

	ex, err := ExtractTemplate([]byte(xdp))
	require.NoError(t, err)
	assert.Equal(t, FormLarge, ex.Form)
	assert.Len(t, ex.Rows, 4)

	vals, err := ReadValues([]byte(xdp))
	require.NoError(t, err)
	assert.Equal(t, FormLarge, vals.Form)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		cells    []cell
		wantDesc string
		wantID   string
	}{
		{
			name:     "Cell1 beats earlier unnamed text",
			cells:    []cell{{text: "Some heading"}, {name: "Cell1", text: "Real description"}},
			wantDesc: "Real description",
		},
		{
			name:     "first Cell1 wins",
			cells:    []cell{{name: "Cell1", text: "first"}, {name: "Cell1", text: "second"}},
			wantDesc: "first",
		},
		{
			name:     "Cell2 must look like a row id",
			cells:    []cell{{name: "Cell2", text: "Nr. rd."}},
			wantDesc: "",
		},
		{
			name:     "unnamed numeric becomes row id",
			cells:    []cell{{text: "Stocuri"}, {text: "35a"}},
			wantDesc: "Stocuri",
			wantID:   "35a",
		},
		{
			name:     "long numeric text is a description",
			cells:    []cell{{text: "1234567"}},
			wantDesc: "1234567",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := classify(tt.cells)
			assert.Equal(t, tt.wantDesc, st.description)
			assert.Equal(t, tt.wantID, st.rowID)
		})
	}
}
