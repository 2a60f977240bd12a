package xfa

import (
	"errors"
	"fmt"
)

var (
	// ErrNoXFA is wrapped by the StructuralError returned for PDFs whose
	// AcroForm has no XFA entry.
	ErrNoXFA = errors.New("PDF has no XFA form")

	// ErrEncrypted is returned when asked to rewrite an encrypted PDF.
	ErrEncrypted = errors.New("encrypted PDFs are not supported")
)

// StructuralError reports a required PDF or XFA node that is missing.
// It aborts processing of the document it was raised for.
type StructuralError struct {
	Node string
	Err  error
}

func (e *StructuralError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("xfa: missing %s: %v", e.Node, e.Err)
	}
	return fmt.Sprintf("xfa: missing %s", e.Node)
}

func (e *StructuralError) Unwrap() error { return e.Err }

func missing(node string) error {
	return &StructuralError{Node: node}
}
