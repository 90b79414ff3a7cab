package dialect

import (
	"github.com/umlkit/goxmi/internal/dom"
)

// Legacy reads XMI 2.1 exports (EA "ea-xmi-2.4.2" and earlier).
//
// Links live in each element's own links list, packages may also be
// nested through nestedPackage, and multiplicity literals are written
// verbatim in the value attribute.
type Legacy struct {
	*extension
}

// NewLegacy indexes the extension subtree of root.
func NewLegacy(root dom.Node, opts Options) *Legacy {
	return &Legacy{extension: newExtension(root, "dialect", opts)}
}

func (d *Legacy) Name() string { return NameLegacy }

func (d *Legacy) PackageChildren(pkg dom.Node) []dom.Node {
	var out []dom.Node
	for _, c := range pkg.ChildElements() {
		switch c.LocalTag() {
		case "packagedElement", "nestedPackage":
			out = append(out, c)
		}
	}
	return out
}

func (d *Legacy) ElementLinks(id string) []Link {
	return d.links(id)
}

func (d *Legacy) Bound(n dom.Node) dom.Value {
	return n.Value("value")
}
