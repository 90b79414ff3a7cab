package resolver

import (
	"html"
	"log/slog"
	"strconv"

	"github.com/umlkit/goxmi/internal/dom"
	"github.com/umlkit/goxmi/internal/types"
	"github.com/umlkit/goxmi/uml"
)

// Packaged element types the assembler distinguishes.
const (
	typePackage     = "uml:Package"
	typeEnumeration = "uml:Enumeration"
	typeProperty    = "uml:Property"
)

// assembleDocument builds the document from the model's top-level packages.
func (c *Context) assembleDocument() *uml.Document {
	doc := &uml.Document{
		Name:    c.Model.Name(),
		Dialect: c.Dialect.Name(),
	}
	doc.Packages = c.assemblePackages(c.Model)
	return doc
}

// assemblePackages recursively builds the packages directly under parent.
func (c *Context) assemblePackages(parent dom.Node) []uml.Package {
	var out []uml.Package
	for _, n := range c.Dialect.PackageChildren(parent) {
		if !isPackage(n) {
			continue
		}
		out = append(out, c.assemblePackage(n))
	}
	return out
}

func isPackage(n dom.Node) bool {
	return n.IsType(typePackage) || (n.Type() == "" && n.LocalTag() == "nestedPackage")
}

func (c *Context) assemblePackage(n dom.Node) uml.Package {
	id := n.ID()
	props := c.Dialect.Properties(id)
	children := c.Dialect.PackageChildren(n)

	p := uml.Package{
		XMIID:      id,
		Name:       n.Name(),
		Definition: props.Definition.String(),
		Stereotype: props.Stereotype.String(),
	}
	for _, cl := range filterTypes(children, uml.TypeClass, uml.TypeAssociationClass) {
		p.Classes = append(p.Classes, c.assembleClass(cl))
	}
	for _, e := range filterTypes(children, typeEnumeration) {
		p.Enums = append(p.Enums, c.assembleEnum(e))
	}
	for _, dt := range filterTypes(children, uml.TypeDataType) {
		p.DataTypes = append(p.DataTypes, c.assembleClass(dt))
	}
	p.Diagrams = c.assembleDiagrams(id)
	p.Packages = c.assemblePackages(n)

	if c.TraceEnabled() {
		c.Trace("assembled package",
			slog.String("id", id),
			slog.String("name", p.Name),
			slog.Int("classes", len(p.Classes)),
			slog.Int("packages", len(p.Packages)))
	}
	return p
}

// assembleClass builds a class, association class or data type.
func (c *Context) assembleClass(n dom.Node) uml.Class {
	id := n.ID()
	props := c.Dialect.Properties(id)
	abstract, _ := strconv.ParseBool(n.Value("isAbstract").String())

	return uml.Class{
		XMIID:        id,
		Name:         n.Name(),
		Type:         n.Type(),
		IsAbstract:   props.IsAbstract || abstract,
		Definition:   props.Definition.String(),
		Stereotype:   props.Stereotype.String(),
		Attributes:   c.assembleAttributes(n),
		Associations: c.resolveAssociations(id),
		Operations:   c.assembleOperations(n),
		Constraints:  c.assembleConstraints(id),
	}
}

// assembleAttributes builds the owned properties that are not association
// ends.
func (c *Context) assembleAttributes(owner dom.Node) []uml.Attribute {
	var out []uml.Attribute
	for _, a := range selectChildren(owner, "ownedAttribute", typeProperty) {
		if a.Value("association").NonEmpty().Present() {
			continue
		}
		id := a.ID()
		typeID := a.Child("type").IDRef()
		derived, _ := strconv.ParseBool(a.Value("isDerived").String())
		doc, _ := c.Dialect.Documentation(id)

		out = append(out, uml.Attribute{
			XMIID:     id,
			Name:      a.Name(),
			Type:      c.typeName(id, typeID),
			TypeXMIID: typeID,
			IsDerived: derived,
			Cardinality: c.cardinality(id,
				c.Dialect.Bound(a.Child("lowerValue")),
				c.Dialect.Bound(a.Child("upperValue"))),
			Definition: doc,
		})
	}
	return out
}

// typeName resolves a type id, falling back to the raw id.
func (c *Context) typeName(ownerID, typeID string) string {
	if typeID == "" {
		return ""
	}
	if name, ok := c.Index.Resolve(typeID); ok {
		return name
	}
	c.Emit(types.DiagTypeUnresolved, uml.SeverityInfo, ownerID,
		"type %q does not name an element", typeID)
	return typeID
}

// assembleOperations builds the owned operations that are not
// association ends.
func (c *Context) assembleOperations(owner dom.Node) []uml.Operation {
	var out []uml.Operation
	for _, op := range owner.Children("ownedOperation") {
		if op.Value("association").NonEmpty().Present() {
			continue
		}
		id := op.ID()
		doc, _ := c.Dialect.Documentation(id)
		out = append(out, uml.Operation{
			XMIID:           id,
			Name:            op.Name(),
			ReturnTypeXMIID: returnType(op),
			Definition:      doc,
		})
	}
	return out
}

// returnType reads an operation's type reference, or the type of its
// return parameter given as a child or an attribute.
func returnType(op dom.Node) string {
	if ref := op.Child("type").IDRef(); ref != "" {
		return ref
	}
	for _, p := range op.Children("ownedParameter") {
		if dir, _ := p.Attr("direction"); dir != "return" {
			continue
		}
		if ref := p.Child("type").IDRef(); ref != "" {
			return ref
		}
		return p.Value("type").String()
	}
	return ""
}

func (c *Context) assembleConstraints(id string) []uml.Constraint {
	records := c.Dialect.Constraints(id)
	if len(records) == 0 {
		return nil
	}
	out := make([]uml.Constraint, len(records))
	for i, r := range records {
		out[i] = uml.Constraint{
			Name:   html.UnescapeString(r.Name),
			Type:   r.Type,
			Weight: r.Weight,
			Status: r.Status,
		}
	}
	return out
}

func (c *Context) assembleEnum(n dom.Node) uml.Enum {
	id := n.ID()
	props := c.Dialect.Properties(id)
	e := uml.Enum{
		XMIID:      id,
		Name:       n.Name(),
		Definition: props.Definition.String(),
		Stereotype: props.Stereotype.String(),
	}
	for _, lit := range n.Children("ownedLiteral") {
		litID := lit.ID()
		doc, _ := c.Dialect.Documentation(litID)
		typ := lit.Type()
		if ref := lit.Child("type").IDRef(); ref != "" {
			typ = c.typeName(litID, ref)
		}
		e.Values = append(e.Values, uml.EnumLiteral{
			XMIID:      litID,
			Name:       lit.Name(),
			Type:       typ,
			Definition: doc,
		})
	}
	return e
}

func (c *Context) assembleDiagrams(packageID string) []uml.Diagram {
	records := c.Dialect.Diagrams(packageID)
	if len(records) == 0 {
		return nil
	}
	out := make([]uml.Diagram, len(records))
	for i, r := range records {
		out[i] = uml.Diagram{
			XMIID:        r.ID,
			Name:         r.Name,
			Definition:   r.Definition.String(),
			PackageXMIID: r.PackageID,
		}
	}
	return out
}
