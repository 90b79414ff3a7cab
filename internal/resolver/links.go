package resolver

import (
	"log/slog"

	"github.com/umlkit/goxmi/internal/dialect"
	"github.com/umlkit/goxmi/internal/dom"
	"github.com/umlkit/goxmi/internal/types"
	"github.com/umlkit/goxmi/uml"
)

// LinkKind classifies an extension link.
type LinkKind int

const (
	LinkAssociation LinkKind = iota
	LinkAggregation
	LinkGeneralization
	LinkNoteLink
	LinkOther
)

func (k LinkKind) String() string {
	switch k {
	case LinkAssociation:
		return "Association"
	case LinkAggregation:
		return "Aggregation"
	case LinkGeneralization:
		return "Generalization"
	case LinkNoteLink:
		return "NoteLink"
	default:
		return "Other"
	}
}

// classifyLink maps a link tag to its kind.
func classifyLink(tag string) LinkKind {
	switch tag {
	case "Association":
		return LinkAssociation
	case "Aggregation":
		return LinkAggregation
	case "Generalization":
		return LinkGeneralization
	case "NoteLink":
		return LinkNoteLink
	default:
		return LinkOther
	}
}

// End names one endpoint of a link.
type End int

const (
	EndStart End = iota
	EndEnd
)

func (e End) String() string {
	if e == EndEnd {
		return "end"
	}
	return "start"
}

// Opposite returns the other endpoint.
func (e End) Opposite() End {
	if e == EndStart {
		return EndEnd
	}
	return EndStart
}

// ConnectorSide maps the link start to the connector source and the link
// end to the connector target.
func (e End) ConnectorSide() dialect.Side {
	if e == EndEnd {
		return dialect.SideTarget
	}
	return dialect.SideSource
}

// endpoint returns the element id at e.
func endpoint(l dialect.Link, e End) string {
	if e == EndEnd {
		return l.End
	}
	return l.Start
}

// endOf returns the endpoint occupied by id. An id that is not the start
// is treated as the end.
func endOf(l dialect.Link, id string) End {
	if l.Start == id {
		return EndStart
	}
	return EndEnd
}

// resolveAssociations returns the associations of the element ownerID in
// link declaration order. Records that resolve to the same fields, link
// id aside, collapse into the first.
func (c *Context) resolveAssociations(ownerID string) []uml.Association {
	links := c.Dialect.ElementLinks(ownerID)
	if len(links) == 0 {
		if !c.Dialect.HasElement(ownerID) {
			c.Emit(types.DiagElementMissing, uml.SeverityInfo, ownerID,
				"no extension element record; associations unavailable")
		}
		return nil
	}

	var out []uml.Association
	seen := make(map[uml.Association]string, len(links))
	for _, l := range links {
		a, ok := c.resolveLink(ownerID, l)
		if !ok {
			continue
		}
		key := a
		key.XMIID = ""
		if first, dup := seen[key]; dup {
			c.Emit(types.DiagAssociationMerged, uml.SeverityInfo, ownerID,
				"link %s duplicates link %s", l.ID, first)
			continue
		}
		seen[key] = l.ID
		out = append(out, a)
	}
	return out
}

// resolveLink computes the association seen from ownerID for one link.
// Every miss yields no record.
func (c *Context) resolveLink(ownerID string, l dialect.Link) (uml.Association, bool) {
	kind := classifyLink(l.Kind)
	switch kind {
	case LinkNoteLink:
		return uml.Association{}, false
	case LinkOther:
		c.Emit(types.DiagLinkKindIgnored, uml.SeverityInfo, l.ID,
			"%s link is not an association", l.Kind)
		return uml.Association{}, false
	}

	ownerEnd := endOf(l, ownerID)
	memberEnd := ownerEnd.Opposite()
	memberID := endpoint(l, memberEnd)

	memberName, ok := c.endpointName(memberID, memberEnd.ConnectorSide())
	if !ok {
		c.Emit(types.DiagReferenceMiss, uml.SeverityInfo, l.ID,
			"member end %q of %s link does not resolve", memberID, l.Kind)
		return uml.Association{}, false
	}

	a := uml.Association{
		XMIID:          l.ID,
		MemberEnd:      memberName,
		MemberEndXMIID: memberID,
		OwnerEndXMIID:  ownerID,
	}
	a.OwnerEnd, _ = c.endpointName(ownerID, ownerEnd.ConnectorSide())

	conn, hasConn := c.Dialect.Connector(l.ID)

	switch kind {
	case LinkGeneralization:
		if ownerEnd == EndStart {
			a.MemberEndType = uml.KindInheritance
		} else {
			a.MemberEndType = uml.KindGeneralization
		}
		a.MemberEndCardinality, _ = c.ownedAttributeEnd(l.ID, memberID)

	case LinkAssociation:
		a.MemberEndType = uml.KindAssociation
		if !hasConn {
			c.Emit(types.DiagConnectorMissing, uml.SeverityWarning, l.ID,
				"association link has no connector record")
			break
		}
		end := conn.End(memberEnd.ConnectorSide())
		lower, upper := parseMultiplicity(end.Multiplicity)
		a.MemberEndCardinality = c.cardinality(l.ID, lower, upper)
		if role, ok := end.Role.Get(); ok {
			a.MemberEndAttributeName = role
			a.MemberEndType = uml.KindAggregation
		}

	case LinkAggregation:
		a.MemberEndType = uml.KindAggregation
		a.MemberEndCardinality, a.MemberEndAttributeName = c.ownedAttributeEnd(l.ID, memberID)
	}

	if a.MemberEndType == uml.KindAggregation && a.MemberEndAttributeName == "" {
		c.Emit(types.DiagAggregationUnnamed, uml.SeverityInfo, l.ID,
			"aggregation towards %q has no role name", memberName)
		return uml.Association{}, false
	}

	if hasConn {
		a.Definition = conn.End(memberEnd.ConnectorSide()).Documentation.String()
	}

	if c.TraceEnabled() {
		c.Trace("resolved link",
			slog.String("owner", ownerID),
			slog.String("link", l.ID),
			slog.String("kind", kind.String()),
			slog.String("member", memberName),
			slog.String("type", string(a.MemberEndType)))
	}
	return a, true
}

// ownedAttributeEnd finds the owned attribute that carries the member end
// of a link: one whose association is the link and whose type is the
// member, else one whose association is the member itself.
func (c *Context) ownedAttributeEnd(linkID, memberID string) (uml.Cardinality, string) {
	attr, ok := c.findOwnedAttribute(linkID, memberID)
	if !ok {
		return uml.Cardinality{}, ""
	}
	card := c.cardinality(attr.ID(),
		c.Dialect.Bound(attr.Child("lowerValue")),
		c.Dialect.Bound(attr.Child("upperValue")))
	return card, attr.Name()
}

func (c *Context) findOwnedAttribute(linkID, memberID string) (dom.Node, bool) {
	for _, a := range c.ownedByAssociation[linkID] {
		if a.Child("type").IDRef() == memberID {
			return a, true
		}
	}
	if attrs := c.ownedByAssociation[memberID]; len(attrs) > 0 {
		return attrs[0], true
	}
	return dom.Node{}, false
}

// indexOwnedAttributes records every owned attribute that carries an
// association back-reference, across all packaged elements.
func (c *Context) indexOwnedAttributes() int {
	var n int
	for _, el := range c.allPackagedElements() {
		for _, a := range el.Children("ownedAttribute") {
			assoc, ok := a.Value("association").NonEmpty().Get()
			if !ok {
				continue
			}
			c.ownedByAssociation[assoc] = append(c.ownedByAssociation[assoc], a)
			n++
		}
	}
	return n
}
