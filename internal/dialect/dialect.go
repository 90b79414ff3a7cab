// Package dialect adapts the tool-specific parts of an XMI export to a
// single capability surface.
//
// Enterprise Architect has shipped several generations of its XMI schema.
// They agree on the standard model subtree but disagree on where links,
// constraints, documentation and multiplicity literals live. Each
// generation is one Dialect; the resolver only talks to the interface.
package dialect

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/umlkit/goxmi/internal/dom"
	"github.com/umlkit/goxmi/internal/types"
)

// Dialect names.
const (
	NameLegacy  = "legacy"
	NameXMI2013 = "xmi2013"
)

// Namespace URIs used for detection.
const (
	NamespaceXMI21   = "http://schema.omg.org/spec/XMI/2.1"
	NamespaceXMI2013 = "http://www.omg.org/spec/XMI/20131001"
	NamespaceUML2013 = "http://www.omg.org/spec/UML/20131001"
)

// ErrUnknown is returned by ByName for an unregistered dialect name.
var ErrUnknown = errors.New("unknown dialect")

// Dialect is the capability surface the resolver consumes.
type Dialect interface {
	// Name returns the dialect name.
	Name() string
	// Model returns the uml:Model node.
	Model(root dom.Node) (dom.Node, bool)
	// PackageChildren returns the packaged elements directly under pkg,
	// in source order.
	PackageChildren(pkg dom.Node) []dom.Node
	// ElementLinks returns the links attached to the element with the
	// given id, in declaration order.
	ElementLinks(id string) []Link
	// HasElement reports whether an extension element record exists for id.
	HasElement(id string) bool
	// Connector returns the connector record for a link id.
	Connector(id string) (Connector, bool)
	// ConnectorEndName returns the model name recorded on the first
	// connector whose end on side references id.
	ConnectorEndName(side Side, id string) (string, bool)
	// Properties returns the extension properties of an element.
	Properties(id string) Properties
	// Documentation returns the documentation of an attribute, operation
	// or literal.
	Documentation(id string) (string, bool)
	// Constraints returns the constraints attached to an element.
	Constraints(id string) []ConstraintRecord
	// Diagrams returns the diagrams owned by a package, in source order.
	Diagrams(packageID string) []DiagramRecord
	// Bound reads a lowerValue or upperValue node as a raw literal.
	Bound(n dom.Node) dom.Value
}

// Options configures dialect construction.
type Options struct {
	Logger *slog.Logger
	Report types.Reporter
}

// Side selects one end of a connector.
type Side int

const (
	SideSource Side = iota
	SideTarget
)

func (s Side) String() string {
	if s == SideTarget {
		return "target"
	}
	return "source"
}

// Link is one entry of an element's link list.
type Link struct {
	ID    string
	Kind  string // local tag: Association, Aggregation, Generalization, NoteLink, ...
	Start string
	End   string
}

// Connector is a connectors-subtree record for a link.
type Connector struct {
	ID     string
	Name   string
	Source ConnectorEnd
	Target ConnectorEnd
}

// End returns the connector end on side.
func (c Connector) End(side Side) ConnectorEnd {
	if side == SideTarget {
		return c.Target
	}
	return c.Source
}

// ConnectorEnd is the source or target record of a connector.
type ConnectorEnd struct {
	IDRef         string
	ModelName     dom.Value
	Role          dom.Value
	Multiplicity  dom.Value
	Documentation dom.Value
	Constraints   []ConstraintRecord
}

// Properties holds the extension properties of an element.
type Properties struct {
	Definition dom.Value
	Stereotype dom.Value
	IsAbstract bool
}

// ConstraintRecord is a raw constraint. Name is not yet entity-decoded.
type ConstraintRecord struct {
	Name   string
	Type   string
	Weight string
	Status string
}

// DiagramRecord is a diagram entry of the extension.
type DiagramRecord struct {
	ID         string
	Name       string
	Definition dom.Value
	PackageID  string
}

// Names returns the registered dialect names.
func Names() []string {
	return []string{NameLegacy, NameXMI2013}
}

// ByName constructs the named dialect over root.
func ByName(name string, root dom.Node, opts Options) (Dialect, error) {
	switch strings.ToLower(name) {
	case NameLegacy, "xmi21", "2.1":
		return NewLegacy(root, opts), nil
	case NameXMI2013, "xmi251", "2.5.1":
		return NewXMI2013(root, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
}

// Detect picks a dialect name from the root element's namespace or
// xmi:version. ok is false when nothing matched and the legacy dialect
// was assumed.
func Detect(root dom.Node) (name string, ok bool) {
	uri := root.NamespaceURI()
	switch {
	case uri == NamespaceXMI2013 || strings.HasSuffix(uri, "/20131001"):
		return NameXMI2013, true
	case uri == NamespaceXMI21 || strings.HasSuffix(uri, "/2.1"):
		return NameLegacy, true
	}
	if v, found := root.Attr("xmi:version"); found {
		switch {
		case v == "2.1":
			return NameLegacy, true
		case strings.HasPrefix(v, "2.5"), v == "20131001":
			return NameXMI2013, true
		}
	}
	// uml:Model may carry the namespace when the wrapper does not.
	for _, c := range root.ChildElements() {
		if c.LocalTag() == "Model" && c.NamespaceURI() == NamespaceUML2013 {
			return NameXMI2013, true
		}
	}
	return NameLegacy, false
}

var (
	_ Dialect = (*Legacy)(nil)
	_ Dialect = (*XMI2013)(nil)
)
