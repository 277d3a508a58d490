// Package richtext converts snapshots of the editor's editable rich-text
// tree into inline markup. The snapshot is a plain XML serialization of the
// editing surface, the encoder only needs read access to it.
package richtext

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// Attributes of the math marker element embedded in the editing tree.
const (
	mathMarkerClass = "math-field"

	attrNativeExpr = "data-native-expr"
	attrLatexExpr  = "data-latex-expr"
	attrDisplay    = "data-display"
)

// LoadSnapshot reads a serialized editing-tree snapshot. Snapshots come from
// a browser surface and are read permissively, declared charsets are honored
// as far as possible.
func LoadSnapshot(r io.Reader) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read rich-text snapshot: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("rich-text snapshot has no root element")
	}
	return doc, nil
}
