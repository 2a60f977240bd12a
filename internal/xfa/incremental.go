package xfa

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// appendRevision returns the original PDF followed by an incremental update
// that replaces the stream object ref with content. The original bytes are
// left untouched, so earlier revisions stay valid. The cross reference
// section matches the kind the file already uses.
func (d *Document) appendRevision(ref types.IndirectRef, content []byte) ([]byte, error) {
	prev, err := lastStartXref(d.raw)
	if err != nil {
		return nil, err
	}

	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	if _, err := zw.Write(content); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(d.raw)
	if n := len(d.raw); n > 0 && d.raw[n-1] != '\n' && d.raw[n-1] != '\r' {
		buf.WriteByte('\n')
	}

	objNr := int(ref.ObjectNumber)
	gen := int(ref.GenerationNumber)
	objOffset := buf.Len()
	fmt.Fprintf(&buf, "%d %d obj\n<</Filter/FlateDecode/Length %d>>\nstream\n", objNr, gen, z.Len())
	buf.Write(z.Bytes())
	buf.WriteString("\nendstream\nendobj\n")

	size := d.size()
	if objNr >= size {
		size = objNr + 1
	}
	xrefOffset := buf.Len()

	if usesXrefStream(d.raw, prev) {
		xrefNr := size
		var entries bytes.Buffer
		writeXrefStreamEntry(&entries, objOffset, gen)
		writeXrefStreamEntry(&entries, xrefOffset, 0)
		fmt.Fprintf(&buf, "%d 0 obj\n<</Type/XRef/Size %d/W[1 4 2]/Index[%d 1 %d 1]%s/Prev %d/Length %d>>\nstream\n",
			xrefNr, xrefNr+1, objNr, xrefNr, d.trailerRefs(), prev, entries.Len())
		buf.Write(entries.Bytes())
		buf.WriteString("\nendstream\nendobj\n")
	} else {
		fmt.Fprintf(&buf, "xref\n%d 1\n%010d %05d n \n", objNr, objOffset, gen)
		fmt.Fprintf(&buf, "trailer\n<</Size %d%s/Prev %d>>\n", size, d.trailerRefs(), prev)
	}
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefOffset)
	return buf.Bytes(), nil
}

func writeXrefStreamEntry(buf *bytes.Buffer, offset, gen int) {
	var b [7]byte
	b[0] = 1
	binary.BigEndian.PutUint32(b[1:5], uint32(offset))
	binary.BigEndian.PutUint16(b[5:7], uint16(gen))
	buf.Write(b[:])
}

// trailerRefs renders the /Root, /Info and /ID entries carried over from the
// previous trailer.
func (d *Document) trailerRefs() string {
	var b bytes.Buffer
	if d.ctx.Root != nil {
		fmt.Fprintf(&b, "/Root %d %d R", d.ctx.Root.ObjectNumber, d.ctx.Root.GenerationNumber)
	}
	if d.ctx.Info != nil {
		fmt.Fprintf(&b, "/Info %d %d R", d.ctx.Info.ObjectNumber, d.ctx.Info.GenerationNumber)
	}
	if len(d.ctx.ID) > 0 {
		b.WriteString("/ID")
		b.WriteString(d.ctx.ID.PDFString())
	}
	return b.String()
}

func (d *Document) size() int {
	if d.ctx.Size != nil {
		return *d.ctx.Size
	}
	n := 0
	for nr := range d.ctx.Table {
		if nr+1 > n {
			n = nr + 1
		}
	}
	return n
}

// lastStartXref returns the offset recorded after the last startxref
// keyword.
func lastStartXref(raw []byte) (int, error) {
	i := bytes.LastIndex(raw, []byte("startxref"))
	if i < 0 {
		return 0, missing("startxref")
	}
	fields := bytes.Fields(raw[i+len("startxref"):])
	if len(fields) == 0 {
		return 0, missing("startxref offset")
	}
	off, err := strconv.Atoi(string(fields[0]))
	if err != nil || off < 0 || off >= len(raw) {
		return 0, &StructuralError{Node: "startxref offset", Err: fmt.Errorf("bad offset %q", fields[0])}
	}
	return off, nil
}

func usesXrefStream(raw []byte, offset int) bool {
	return !bytes.HasPrefix(bytes.TrimLeft(raw[offset:], " \t\r\n"), []byte("xref"))
}
