package resolver

import (
	"log/slog"

	"github.com/umlkit/goxmi/internal/dom"
	"github.com/umlkit/goxmi/internal/types"
)

// Index maps element identifiers to names. It is built once from the
// whole tree and only read afterwards.
type Index struct {
	names map[string]string
	// Duplicates lists ids that were recorded more than once, in the
	// order the repeats were seen.
	Duplicates []string
}

// buildIndex walks every element under root in pre-order, recording each
// one that carries both xmi:id and a non-empty name. This covers the model,
// the extension, primitive types and profiles. The last write wins.
func buildIndex(root dom.Node, log *types.Logger) *Index {
	ix := &Index{names: make(map[string]string)}
	root.Walk(func(n dom.Node) bool {
		id := n.ID()
		if id == "" {
			return true
		}
		name, ok := n.Attr(dom.AttrName)
		if !ok || name == "" {
			return true
		}
		if prev, dup := ix.names[id]; dup {
			ix.Duplicates = append(ix.Duplicates, id)
			if log.TraceEnabled() {
				log.Trace("duplicate id in index",
					slog.String("id", id),
					slog.String("previous", prev),
					slog.String("name", name))
			}
		}
		ix.names[id] = name
		return true
	})
	return ix
}

// Resolve returns the name recorded for id.
func (ix *Index) Resolve(id string) (string, bool) {
	name, ok := ix.names[id]
	return name, ok
}

// Len returns the number of indexed identifiers.
func (ix *Index) Len() int {
	return len(ix.names)
}
