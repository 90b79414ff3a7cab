package dom

import (
	"strings"

	"github.com/beevik/etree"
)

// Attribute names shared by every XMI dialect.
const (
	AttrID    = "xmi:id"
	AttrIDRef = "xmi:idref"
	AttrType  = "xmi:type"
	AttrName  = "name"
)

// Node is an element in the tree. The zero Node is invalid and every
// accessor on it returns an empty result, so lookups may be chained.
type Node struct {
	e *etree.Element
}

// Valid reports whether the node refers to an element.
func (n Node) Valid() bool { return n.e != nil }

// Tag returns the prefixed tag, e.g. "packagedElement" or "xmi:Extension".
func (n Node) Tag() string {
	if n.e == nil {
		return ""
	}
	return n.e.FullTag()
}

// LocalTag returns the tag without its namespace prefix.
func (n Node) LocalTag() string {
	if n.e == nil {
		return ""
	}
	return n.e.Tag
}

// NamespaceURI returns the namespace URI bound to the element's prefix.
func (n Node) NamespaceURI() string {
	if n.e == nil {
		return ""
	}
	return n.e.NamespaceURI()
}

// Type returns the xmi:type attribute.
func (n Node) Type() string { return n.Value(AttrType).String() }

// IsType reports whether the node's xmi:type equals kind.
// An empty kind matches every node.
func (n Node) IsType(kind string) bool {
	return kind == "" || n.Type() == kind
}

// ID returns the xmi:id attribute.
func (n Node) ID() string { return n.Value(AttrID).String() }

// IDRef returns the xmi:idref attribute.
func (n Node) IDRef() string { return n.Value(AttrIDRef).String() }

// Name returns the name attribute.
func (n Node) Name() string { return n.Value(AttrName).String() }

// Attr returns the attribute value. A prefixed name such as "xmi:id" must
// match the prefix exactly; an unprefixed name only matches unprefixed
// attributes.
func (n Node) Attr(name string) (string, bool) {
	if n.e == nil {
		return "", false
	}
	space, key := "", name
	if i := strings.IndexByte(name, ':'); i >= 0 {
		space, key = name[:i], name[i+1:]
	}
	for _, a := range n.e.Attr {
		if a.Space == space && a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Value returns the attribute as an optional value.
func (n Node) Value(name string) Value {
	if s, ok := n.Attr(name); ok {
		return Some(s)
	}
	return None
}

// Children returns the child elements whose tag equals relation, in
// document order. An unprefixed relation matches any prefix.
func (n Node) Children(relation string) []Node {
	if n.e == nil {
		return nil
	}
	return wrap(n.e.SelectElements(relation))
}

// Child returns the first child element with the given tag.
func (n Node) Child(tag string) Node {
	if n.e == nil {
		return Node{}
	}
	return Node{e: n.e.SelectElement(tag)}
}

// Path follows a chain of Child lookups.
func (n Node) Path(tags ...string) Node {
	for _, tag := range tags {
		n = n.Child(tag)
	}
	return n
}

// ChildElements returns every child element in document order.
func (n Node) ChildElements() []Node {
	if n.e == nil {
		return nil
	}
	return wrap(n.e.ChildElements())
}

// HasChildren reports whether the node has any child element with the
// given tag.
func (n Node) HasChildren(relation string) bool {
	return n.Child(relation).Valid()
}

// Text returns the element's leading character data.
func (n Node) Text() string {
	if n.e == nil {
		return ""
	}
	return n.e.Text()
}

// Parent returns the parent element, or an invalid node at the root.
func (n Node) Parent() Node {
	if n.e == nil {
		return Node{}
	}
	return Node{e: n.e.Parent()}
}

// Walk visits the node and every descendant element in pre-order.
// Returning false from fn stops the walk.
func (n Node) Walk(fn func(Node) bool) bool {
	if n.e == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.e.ChildElements() {
		if !(Node{e: c}).Walk(fn) {
			return false
		}
	}
	return true
}

// String returns a readable location for diagnostics.
func (n Node) String() string {
	if n.e == nil {
		return "<nil>"
	}
	if id := n.ID(); id != "" {
		return n.Tag() + "#" + id
	}
	return n.e.GetPath()
}

func wrap(elems []*etree.Element) []Node {
	if len(elems) == 0 {
		return nil
	}
	out := make([]Node, len(elems))
	for i, e := range elems {
		out[i] = Node{e: e}
	}
	return out
}
