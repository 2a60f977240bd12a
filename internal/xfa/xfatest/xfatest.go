// Package xfatest builds small XFA PDFs for tests.
package xfatest

import (
	"bytes"
	"fmt"
)

// TemplateXML is an F10L template packet with a section row, two data rows
// (one with rich text) and a total.
const TemplateXML = `<template xmlns="http://www.xfa.org/schema/xfa-template/3.3/">
 <subform name="form1">
  <subform name="F10L">
   <subform name="Table1">
    <subform name="RGOL"><draw name="Cell1"><value><text>Denumirea elementului</text></value></draw></subform>
    <subform name="R0"><draw><value><text>A. ACTIVE IMOBILIZATE</text></value><font weight="bold"/></draw></subform>
    <subform name="R1">
     <draw name="Cell1"><value><text>Imobilizari necorporale (ct.201+203-2801)</text></value></draw>
     <draw name="Cell2"><value><text>01</text></value></draw>
     <field name="C1"/><field name="C2"/>
    </subform>
    <subform name="R2">
     <draw name="Cell1"><value><exData contentType="text/html">&lt;p&gt;Imobilizari corporale &lt;span&gt;(ct. 211+212)&lt;/span&gt;&lt;/p&gt;</exData></value></draw>
     <draw name="Cell2"><value><text>02</text></value></draw>
    </subform>
    <subform name="R3">
     <draw><value><text>TOTAL (rd. 01 la 02)</text></value></draw>
     <draw><value><text>03</text></value></draw>
    </subform>
    <subform name="R4"/>
   </subform>
  </subform>
 </subform>
</template>`

// DatasetsXML is a datasets packet matching TemplateXML.
const DatasetsXML = `<xfa:datasets xmlns:xfa="http://www.xfa.org/schema/xfa-data/1.0/">
<xfa:data>
<form1><F10L><Table1><RGOL/><R1><C1>5</C1><C2></C2></R1><R2><C1>abc</C1><C2>7</C2></R2><R3/></Table1></F10L></form1>
</xfa:data>
</xfa:datasets>`

// BuildPDF assembles a minimal one-page PDF whose AcroForm carries the
// given XFA packets. With withXFA false the AcroForm is omitted.
func BuildPDF(template, datasets string, withXFA bool) []byte {
	catalog := "<</Type/Catalog/Pages 2 0 R/AcroForm 4 0 R>>"
	if !withXFA {
		catalog = "<</Type/Catalog/Pages 2 0 R>>"
	}
	objs := []string{
		catalog,
		"<</Type/Pages/Kids[3 0 R]/Count 1>>",
		"<</Type/Page/Parent 2 0 R/MediaBox[0 0 612 792]>>",
		"<</Fields[]/XFA[(template) 5 0 R (datasets) 6 0 R]>>",
		stream(template),
		stream(datasets),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<</Size %d/Root 1 0 R>>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func stream(s string) string {
	return fmt.Sprintf("<</Length %d>>\nstream\n%s\nendstream", len(s), s)
}
