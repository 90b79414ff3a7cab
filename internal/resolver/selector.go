package resolver

import (
	"slices"

	"github.com/umlkit/goxmi/internal/dom"
)

// selectAll collects every node under root, root included, whose xmi:type
// equals kind, walking depth-first in pre-order through children. An
// empty kind matches every node. Childless nodes are still tested against
// the filter.
func selectAll(root dom.Node, kind string, children func(dom.Node) []dom.Node) []dom.Node {
	var out []dom.Node
	var walk func(n dom.Node)
	walk = func(n dom.Node) {
		if n.IsType(kind) {
			out = append(out, n)
		}
		for _, c := range children(n) {
			walk(c)
		}
	}
	if root.Valid() {
		walk(root)
	}
	return out
}

// selectChildren returns the direct relation children of parent whose
// xmi:type is one of kinds. No kinds matches every child.
func selectChildren(parent dom.Node, relation string, kinds ...string) []dom.Node {
	return filterTypes(parent.Children(relation), kinds...)
}

func filterTypes(nodes []dom.Node, kinds ...string) []dom.Node {
	if len(kinds) == 0 {
		return nodes
	}
	var out []dom.Node
	for _, n := range nodes {
		if slices.Contains(kinds, n.Type()) {
			out = append(out, n)
		}
	}
	return out
}

// allPackagedElements returns every packaged element beneath the model,
// of any kind, following the dialect's package containment.
func (c *Context) allPackagedElements() []dom.Node {
	all := selectAll(c.Model, "", c.Dialect.PackageChildren)
	if len(all) == 0 {
		return nil
	}
	return all[1:]
}
