package resolver

import (
	"strings"

	"github.com/umlkit/goxmi/internal/dom"
	"github.com/umlkit/goxmi/internal/types"
	"github.com/umlkit/goxmi/uml"
)

// lowerValueMappings substitutes an optionality code for a raw lower bound.
var lowerValueMappings = map[string]uml.Optionality{
	"0": uml.Conditional,
	"1": uml.Mandatory,
}

// normalizeCardinality maps raw bounds to a cardinality. A lower bound
// outside the substitution table and any absent bound stay absent. The
// upper bound passes through verbatim.
func normalizeCardinality(lower, upper dom.Value) uml.Cardinality {
	var c uml.Cardinality
	if v, ok := lower.Get(); ok {
		c.Min = lowerValueMappings[v]
	}
	if v, ok := upper.Get(); ok {
		c.Max = v
	}
	return c
}

// parseMultiplicity splits a connector multiplicity such as "0..*". A
// single value v is read as "1..v".
func parseMultiplicity(m dom.Value) (lower, upper dom.Value) {
	s, ok := m.Get()
	if !ok {
		return dom.None, dom.None
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return dom.None, dom.None
	}
	lo, hi, found := strings.Cut(s, "..")
	if !found {
		return dom.Some("1"), dom.Some(s)
	}
	// "a..b..c" keeps the first two parts.
	hi, _, _ = strings.Cut(hi, "..")
	return dom.Some(strings.TrimSpace(lo)), dom.Some(strings.TrimSpace(hi))
}

// cardinality normalizes and reports lower bounds the table does not know.
func (c *Context) cardinality(ownerID string, lower, upper dom.Value) uml.Cardinality {
	card := normalizeCardinality(lower, upper)
	if v, ok := lower.Get(); ok && card.Min == "" {
		c.Emit(types.DiagCardinalityUnknown, uml.SeverityInfo, ownerID,
			"lower bound %q has no optionality code", v)
	}
	return card
}
