package xfa

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Packet names inside the AcroForm XFA array. A PDF that stores the whole
// XDP in a single stream exposes it as PacketXDP.
const (
	PacketTemplate = "template"
	PacketDatasets = "datasets"
	PacketXDP      = "xdp"
)

// Packet is one decoded XFA stream.
type Packet struct {
	Name string
	Ref  types.IndirectRef
	Data []byte
}

// Document is a PDF opened for XFA access.
type Document struct {
	raw     []byte
	ctx     *model.Context
	packets []Packet
}

// OpenFile reads a PDF from disk.
func OpenFile(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}
	return Open(raw)
}

// Open parses raw PDF bytes and decodes the XFA packets referenced from the
// AcroForm dictionary.
func Open(raw []byte) (*Document, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(raw), conf)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}

	root, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	acroObj, found := root.Find("AcroForm")
	if !found {
		return nil, &StructuralError{Node: "AcroForm", Err: ErrNoXFA}
	}
	acro, err := ctx.DereferenceDict(acroObj)
	if err != nil || acro == nil {
		return nil, &StructuralError{Node: "AcroForm", Err: ErrNoXFA}
	}
	xfaObj, found := acro.Find("XFA")
	if !found {
		return nil, &StructuralError{Node: "XFA", Err: ErrNoXFA}
	}

	doc := &Document{raw: raw, ctx: ctx}
	if arr, err := ctx.DereferenceArray(xfaObj); err == nil && arr != nil {
		if err := doc.readArray(arr); err != nil {
			return nil, err
		}
		return doc, nil
	}

	ref, ok := xfaObj.(types.IndirectRef)
	if !ok {
		return nil, &StructuralError{Node: "XFA stream", Err: ErrNoXFA}
	}
	data, err := doc.decode(ref)
	if err != nil {
		return nil, err
	}
	doc.packets = append(doc.packets, Packet{Name: PacketXDP, Ref: ref, Data: data})
	return doc, nil
}

// readArray walks the [name stream name stream ...] pairs.
func (d *Document) readArray(arr types.Array) error {
	for i := 0; i+1 < len(arr); i += 2 {
		name, err := d.ctx.DereferenceStringOrHexLiteral(arr[i], model.V10, nil)
		if err != nil {
			return fmt.Errorf("reading XFA packet name: %w", err)
		}
		ref, ok := arr[i+1].(types.IndirectRef)
		if !ok {
			continue
		}
		data, err := d.decode(ref)
		if err != nil {
			return fmt.Errorf("packet %q: %w", name, err)
		}
		d.packets = append(d.packets, Packet{Name: name, Ref: ref, Data: data})
	}
	if len(d.packets) == 0 {
		return &StructuralError{Node: "XFA packets", Err: ErrNoXFA}
	}
	return nil
}

func (d *Document) decode(ref types.IndirectRef) ([]byte, error) {
	obj, err := d.ctx.Dereference(ref)
	if err != nil {
		return nil, fmt.Errorf("dereferencing XFA stream: %w", err)
	}
	sd, ok := obj.(types.StreamDict)
	if !ok {
		return nil, &StructuralError{Node: fmt.Sprintf("stream %d", ref.ObjectNumber)}
	}
	if err := sd.Decode(); err != nil {
		return nil, fmt.Errorf("decoding XFA stream: %w", err)
	}
	return sd.Content, nil
}

// Packets returns the decoded packets in PDF order.
func (d *Document) Packets() []Packet {
	return d.packets
}

// Packet returns the named packet, falling back to the single XDP stream.
func (d *Document) Packet(name string) (Packet, error) {
	var xdp *Packet
	for i, p := range d.packets {
		if p.Name == name {
			return p, nil
		}
		if p.Name == PacketXDP {
			xdp = &d.packets[i]
		}
	}
	if xdp != nil {
		return *xdp, nil
	}
	return Packet{}, missing(name + " packet")
}

// Encrypted reports whether the PDF has an Encrypt dictionary.
func (d *Document) Encrypted() bool {
	return d.ctx.Encrypt != nil
}

// ExtractTemplate runs template extraction on the document's template packet.
func (d *Document) ExtractTemplate() (*Extraction, error) {
	p, err := d.Packet(PacketTemplate)
	if err != nil {
		return nil, err
	}
	return ExtractTemplate(p.Data)
}

// ReadValues reads the values currently filled in the datasets packet.
func (d *Document) ReadValues() (*Values, error) {
	p, err := d.Packet(PacketDatasets)
	if err != nil {
		return nil, err
	}
	return ReadValues(p.Data)
}
