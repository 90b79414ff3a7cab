package dialect

import (
	"log/slog"
	"strconv"

	"github.com/umlkit/goxmi/internal/dom"
	"github.com/umlkit/goxmi/internal/types"
	"github.com/umlkit/goxmi/uml"
)

// extension indexes the tool extension subtree once. Both dialects embed
// it and override the lookups that differ.
type extension struct {
	types.Logger
	report types.Reporter

	elements      []dom.Node
	elementByID   map[string]dom.Node
	connectors    []Connector
	connectorByID map[string]int
	endNames      [2]map[string]string
	docs          map[string]string
	diagrams      map[string][]DiagramRecord
}

func newExtension(root dom.Node, component string, opts Options) *extension {
	x := &extension{
		Logger:        types.Logger{L: types.Component(opts.Logger, component)},
		report:        opts.Report,
		elementByID:   make(map[string]dom.Node),
		connectorByID: make(map[string]int),
		endNames:      [2]map[string]string{make(map[string]string), make(map[string]string)},
		docs:          make(map[string]string),
		diagrams:      make(map[string][]DiagramRecord),
	}

	exts := extensionNodes(root)
	if len(exts) == 0 {
		x.report.Report(uml.SeverityWarning, types.DiagExtensionMissing, "",
			"no xmi:Extension section; associations, properties and diagrams will be empty")
	}
	for _, ext := range exts {
		x.indexElements(ext.Child("elements"))
		x.indexConnectors(ext.Child("connectors"))
		x.indexDiagrams(ext.Child("diagrams"))
	}

	x.Log(slog.LevelDebug, "extension indexed",
		slog.Int("elements", len(x.elements)),
		slog.Int("connectors", len(x.connectors)),
		slog.Int("documented", len(x.docs)))
	return x
}

// extensionNodes returns the xmi:Extension children of the root that
// carry tool data, in document order.
func extensionNodes(root dom.Node) []dom.Node {
	var out []dom.Node
	for _, ext := range root.Children("xmi:Extension") {
		if ext.HasChildren("elements") || ext.HasChildren("connectors") || ext.HasChildren("diagrams") {
			out = append(out, ext)
		}
	}
	return out
}

func (x *extension) indexElements(list dom.Node) {
	for _, el := range list.Children("element") {
		id := el.IDRef()
		if id == "" {
			continue
		}
		if _, dup := x.elementByID[id]; dup {
			x.report.Report(uml.SeverityWarning, types.DiagDuplicateElement, id,
				"duplicate extension element record; keeping the first")
			continue
		}
		x.elementByID[id] = el
		x.elements = append(x.elements, el)

		for _, a := range el.Path("attributes").Children("attribute") {
			x.indexDoc(a)
		}
		for _, op := range el.Path("operations").Children("operation") {
			x.indexDoc(op)
		}
	}
}

func (x *extension) indexDoc(n dom.Node) {
	id := n.IDRef()
	if id == "" {
		return
	}
	if v, ok := n.Child("documentation").Value("value").Get(); ok {
		if _, seen := x.docs[id]; !seen {
			x.docs[id] = v
		}
	}
}

func (x *extension) indexConnectors(list dom.Node) {
	for _, n := range list.Children("connector") {
		c := readConnector(n)
		if c.ID == "" {
			continue
		}
		if _, dup := x.connectorByID[c.ID]; dup {
			x.report.Report(uml.SeverityWarning, types.DiagDuplicateConnector, c.ID,
				"duplicate connector record; keeping the first")
			continue
		}
		x.connectorByID[c.ID] = len(x.connectors)
		x.connectors = append(x.connectors, c)

		for _, side := range []Side{SideSource, SideTarget} {
			end := c.End(side)
			if end.IDRef == "" {
				continue
			}
			if _, seen := x.endNames[side][end.IDRef]; seen {
				continue
			}
			if name, ok := end.ModelName.NonEmpty().Get(); ok {
				x.endNames[side][end.IDRef] = name
			} else if c.Name != "" {
				x.endNames[side][end.IDRef] = c.Name
			}
		}
	}
}

func (x *extension) indexDiagrams(list dom.Node) {
	for _, n := range list.Children("diagram") {
		props := n.Child("properties")
		pkg := n.Child("model").Value("package").String()
		if pkg == "" {
			continue
		}
		x.diagrams[pkg] = append(x.diagrams[pkg], DiagramRecord{
			ID:         n.ID(),
			Name:       props.Value("name").String(),
			Definition: props.Value("documentation"),
			PackageID:  pkg,
		})
	}
}

func readConnector(n dom.Node) Connector {
	return Connector{
		ID:     n.IDRef(),
		Name:   n.Name(),
		Source: readConnectorEnd(n.Child("source")),
		Target: readConnectorEnd(n.Child("target")),
	}
}

func readConnectorEnd(n dom.Node) ConnectorEnd {
	typ := n.Child("type")
	return ConnectorEnd{
		IDRef:         n.IDRef(),
		ModelName:     n.Child("model").Value("name"),
		Role:          n.Child("role").Value("name").NonEmpty(),
		Multiplicity:  typ.Value("multiplicity").NonEmpty(),
		Documentation: n.Child("documentation").Value("value").NonEmpty(),
		Constraints:   readConstraints(n.Child("constraints")),
	}
}

func readConstraints(list dom.Node) []ConstraintRecord {
	var out []ConstraintRecord
	for _, c := range list.Children("constraint") {
		out = append(out, ConstraintRecord{
			Name:   c.Name(),
			Type:   c.Value("type").String(),
			Weight: c.Value("weight").String(),
			Status: c.Value("status").String(),
		})
	}
	return out
}

// Model finds uml:Model under the root, or the root itself when the
// export has no XMI wrapper.
func (x *extension) Model(root dom.Node) (dom.Node, bool) {
	if root.LocalTag() == "Model" {
		return root, true
	}
	for _, c := range root.ChildElements() {
		if c.LocalTag() == "Model" || c.Type() == "uml:Model" {
			return c, true
		}
	}
	return dom.Node{}, false
}

func (x *extension) HasElement(id string) bool {
	_, ok := x.elementByID[id]
	return ok
}

func (x *extension) Connector(id string) (Connector, bool) {
	i, ok := x.connectorByID[id]
	if !ok {
		return Connector{}, false
	}
	return x.connectors[i], true
}

func (x *extension) ConnectorEndName(side Side, id string) (string, bool) {
	name, ok := x.endNames[side][id]
	return name, ok
}

func (x *extension) Properties(id string) Properties {
	props := x.elementByID[id].Child("properties")
	abstract, _ := strconv.ParseBool(props.Value("isAbstract").String())
	return Properties{
		Definition: props.Value("documentation"),
		Stereotype: props.Value("stereotype"),
		IsAbstract: abstract,
	}
}

func (x *extension) Documentation(id string) (string, bool) {
	doc, ok := x.docs[id]
	return doc, ok
}

func (x *extension) Constraints(id string) []ConstraintRecord {
	return readConstraints(x.elementByID[id].Child("constraints"))
}

func (x *extension) Diagrams(packageID string) []DiagramRecord {
	return x.diagrams[packageID]
}

// links reads an element's own link list.
func (x *extension) links(id string) []Link {
	el, ok := x.elementByID[id]
	if !ok {
		return nil
	}
	return readLinks(el)
}

func readLinks(el dom.Node) []Link {
	var out []Link
	for _, l := range el.Child("links").ChildElements() {
		out = append(out, Link{
			ID:    l.ID(),
			Kind:  l.LocalTag(),
			Start: l.Value("start").String(),
			End:   l.Value("end").String(),
		})
	}
	return out
}
