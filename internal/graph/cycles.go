package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/umlkit/goxmi/internal/types"
	"github.com/umlkit/goxmi/uml"
)

// ResolutionOrder returns class ids with supertypes before subtypes, using
// Tarjan's algorithm over nodes in id order. Strongly connected components
// with more than one node (or a single node with a self-loop) are reported
// as cycles and excluded from the order.
func (g *Graph) ResolutionOrder() (order []string, cycles [][]string) {
	var (
		index    int
		stack    []string
		onStack  = make(map[string]bool)
		indices  = make(map[string]int)
		lowlinks = make(map[string]int)
	)

	var strongConnect func(id string)
	strongConnect = func(id string) {
		indices[id] = index
		lowlinks[id] = index
		index++
		stack = append(stack, id)
		onStack[id] = true

		for _, sup := range g.edges[id] {
			if _, visited := indices[sup]; !visited {
				strongConnect(sup)
				lowlinks[id] = min(lowlinks[id], lowlinks[sup])
			} else if onStack[sup] {
				lowlinks[id] = min(lowlinks[id], indices[sup])
			}
		}

		if lowlinks[id] == indices[id] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == id {
					break
				}
			}
			switch {
			case len(scc) > 1:
				slices.Sort(scc)
				cycles = append(cycles, scc)
			case slices.Contains(g.edges[scc[0]], scc[0]):
				cycles = append(cycles, scc)
			default:
				order = append(order, scc[0])
			}
		}
	}

	for _, id := range g.sortedNodes() {
		if _, visited := indices[id]; !visited {
			strongConnect(id)
		}
	}
	return order, cycles
}

// FindCycles returns every generalization cycle, each sorted by id.
func (g *Graph) FindCycles() [][]string {
	_, cycles := g.ResolutionOrder()
	return cycles
}

// HasCycles reports whether the graph contains any cycles.
func (g *Graph) HasCycles() bool {
	return len(g.FindCycles()) > 0
}

// CycleDiagnostics reports each cycle as a generalization-cycle error on
// its first class.
func (g *Graph) CycleDiagnostics() []uml.Diagnostic {
	var out []uml.Diagnostic
	for _, cycle := range g.FindCycles() {
		names := make([]string, len(cycle))
		for i, id := range cycle {
			names[i] = cmpName(g.Name(id), id)
		}
		out = append(out, uml.Diagnostic{
			Severity: uml.SeverityError,
			Code:     types.DiagGeneralizationCycle,
			Message:  fmt.Sprintf("generalization cycle: %s", strings.Join(names, " -> ")),
			XMIID:    cycle[0],
		})
	}
	return out
}

func cmpName(name, id string) string {
	if name == "" {
		return id
	}
	return name
}
