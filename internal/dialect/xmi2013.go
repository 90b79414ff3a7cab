package dialect

import (
	"log/slog"

	"github.com/umlkit/goxmi/internal/dom"
)

// XMI2013 reads XMI 2.5.1 exports using the 20131001 namespaces.
//
// Links are discovered by scanning every element record for links whose
// start or end is the element, since EA 2013 writes each link only once.
// Constraints that moved onto connector ends are found through the end's
// idref. A LiteralUnlimitedNatural of -1 reads as "*"; a literal without
// a value stays absent.
type XMI2013 struct {
	*extension

	linksByEnd     map[string][]Link
	endConstraints map[string][]ConstraintRecord
}

// NewXMI2013 indexes the extension subtree of root.
func NewXMI2013(root dom.Node, opts Options) *XMI2013 {
	d := &XMI2013{
		extension:      newExtension(root, "dialect", opts),
		linksByEnd:     make(map[string][]Link),
		endConstraints: make(map[string][]ConstraintRecord),
	}
	d.indexLinks()
	d.indexEndConstraints()
	return d
}

func (d *XMI2013) Name() string { return NameXMI2013 }

func (d *XMI2013) indexLinks() {
	seen := make(map[string]map[string]bool)
	add := func(endpoint string, l Link) {
		if endpoint == "" {
			return
		}
		if seen[endpoint] == nil {
			seen[endpoint] = make(map[string]bool)
		}
		if l.ID != "" && seen[endpoint][l.ID] {
			return
		}
		seen[endpoint][l.ID] = true
		d.linksByEnd[endpoint] = append(d.linksByEnd[endpoint], l)
	}
	for _, el := range d.elements {
		for _, l := range readLinks(el) {
			add(l.Start, l)
			if l.End != l.Start {
				add(l.End, l)
			}
		}
	}
	d.Log(slog.LevelDebug, "links indexed by endpoint", slog.Int("endpoints", len(d.linksByEnd)))
}

func (d *XMI2013) indexEndConstraints() {
	for _, c := range d.connectors {
		for _, end := range []ConnectorEnd{c.Source, c.Target} {
			if end.IDRef != "" && len(end.Constraints) > 0 {
				d.endConstraints[end.IDRef] = append(d.endConstraints[end.IDRef], end.Constraints...)
			}
		}
	}
}

func (d *XMI2013) PackageChildren(pkg dom.Node) []dom.Node {
	return pkg.Children("packagedElement")
}

func (d *XMI2013) ElementLinks(id string) []Link {
	return d.linksByEnd[id]
}

func (d *XMI2013) Properties(id string) Properties {
	p := d.extension.Properties(id)
	if !p.Definition.Present() {
		p.Definition = d.elementByID[id].Child("documentation").Value("value")
	}
	return p
}

func (d *XMI2013) Constraints(id string) []ConstraintRecord {
	if own := d.extension.Constraints(id); len(own) > 0 {
		return own
	}
	return d.endConstraints[id]
}

func (d *XMI2013) Bound(n dom.Node) dom.Value {
	if !n.Valid() {
		return dom.None
	}
	v, ok := n.Attr("value")
	if n.IsType("uml:LiteralUnlimitedNatural") && v == "-1" {
		return dom.Some("*")
	}
	if !ok {
		return dom.None
	}
	return dom.Some(v)
}
