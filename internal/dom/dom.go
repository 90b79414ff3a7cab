// Package dom provides the read-only XML tree the resolver works on.
//
// It wraps github.com/beevik/etree and exposes only the navigation
// primitives the resolver needs: child lists by relation, type tests,
// and attribute lookup with explicit absence.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
)

// ErrEmpty is returned when the input has no root element.
var ErrEmpty = errors.New("document has no root element")

// Document is a parsed XML document.
type Document struct {
	doc *etree.Document

	// Charset is the encoding label declared by the document, empty for UTF-8.
	Charset string
	// CharsetFallback is set when Charset was not recognized and the
	// input was read as UTF-8.
	CharsetFallback bool
}

// Parse reads an XML document from r.
func Parse(r io.Reader) (*Document, error) {
	d := &Document{doc: etree.NewDocument()}
	d.doc.ReadSettings.CharsetReader = d.charsetReader
	if _, err := d.doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}
	if d.doc.Root() == nil {
		return nil, ErrEmpty
	}
	return d, nil
}

// ParseBytes reads an XML document from data.
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

// ParseString reads an XML document from s.
func ParseString(s string) (*Document, error) {
	return ParseBytes([]byte(s))
}

// Root returns the document element.
func (d *Document) Root() Node {
	return Node{e: d.doc.Root()}
}
