// Package graph provides the generalization graph of a document and the
// analyses run over it.
package graph

import (
	"slices"

	"github.com/umlkit/goxmi/uml"
)

// Graph is a directed graph of class ids with an edge from each subtype to
// each of its supertypes.
type Graph struct {
	nodes map[string]string // id -> class name
	edges map[string][]string
}

// New returns a graph with no nodes or edges.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]string),
		edges: make(map[string][]string),
	}
}

// FromDocument builds the generalization graph of doc from the inheritance
// associations of every class and data type.
func FromDocument(doc *uml.Document) *Graph {
	g := New()
	for c := range doc.AllClasses() {
		g.AddNode(c.XMIID, c.Name)
		for _, a := range c.Associations {
			if a.MemberEndType == uml.KindInheritance && a.MemberEndXMIID != "" {
				g.AddNode(a.MemberEndXMIID, a.MemberEnd)
				g.AddEdge(c.XMIID, a.MemberEndXMIID)
			}
		}
	}
	return g
}

// AddNode registers a class. A later call only fills in a missing name.
func (g *Graph) AddNode(id, name string) {
	if prev, ok := g.nodes[id]; ok && prev != "" {
		return
	}
	g.nodes[id] = name
}

// AddEdge records that sub specializes super. Missing nodes are created
// implicitly. Duplicate edges are ignored.
func (g *Graph) AddEdge(sub, super string) {
	if _, ok := g.nodes[sub]; !ok {
		g.nodes[sub] = ""
	}
	if _, ok := g.nodes[super]; !ok {
		g.nodes[super] = ""
	}
	if slices.Contains(g.edges[sub], super) {
		return
	}
	g.edges[sub] = append(g.edges[sub], super)
}

// Supertypes returns the direct supertypes of id.
func (g *Graph) Supertypes(id string) []string {
	return g.edges[id]
}

// HasNode reports whether the id exists in the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Name returns the class name recorded for id.
func (g *Graph) Name(id string) string {
	return g.nodes[id]
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

func (g *Graph) sortedNodes() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
