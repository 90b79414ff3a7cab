package testutil

import (
	"github.com/beevik/etree"
)

// Flavor selects the XMI generation written by an XMIBuilder.
type Flavor int

const (
	// FlavorLegacy writes XMI 2.1 with links under both endpoints.
	FlavorLegacy Flavor = iota
	// Flavor2013 writes XMI 2.5.1 with each link under its start only.
	Flavor2013
)

// XMIBuilder assembles an Enterprise Architect style XMI document.
type XMIBuilder struct {
	flavor     Flavor
	modelName  string
	packages   []*PackageBuilder
	records    []*record
	recordByID map[string]*record
	connectors []ConnectorSpec
	diagrams   []DiagramSpec
	primitives [][2]string
}

// record is an extension element entry.
type record struct {
	id, typ, name string
	props         map[string]string
	docs          [][2]string
	constraints   []ConstraintSpec
	links         []LinkSpec
}

// NewXMI returns a builder for a model named "EA_Model".
func NewXMI(flavor Flavor) *XMIBuilder {
	return &XMIBuilder{
		flavor:     flavor,
		modelName:  "EA_Model",
		recordByID: make(map[string]*record),
	}
}

// ModelName sets the uml:Model name.
func (b *XMIBuilder) ModelName(name string) *XMIBuilder {
	b.modelName = name
	return b
}

func (b *XMIBuilder) rec(id, typ, name string) *record {
	if r, ok := b.recordByID[id]; ok {
		if typ != "" {
			r.typ = typ
		}
		if name != "" {
			r.name = name
		}
		return r
	}
	r := &record{id: id, typ: typ, name: name, props: make(map[string]string)}
	b.records = append(b.records, r)
	b.recordByID[id] = r
	return r
}

// Package adds a top-level package.
func (b *XMIBuilder) Package(id, name string) *PackageBuilder {
	p := &PackageBuilder{b: b, id: id, name: name}
	b.packages = append(b.packages, p)
	b.rec(id, "uml:Package", name)
	return p
}

// Prop sets an extension property (documentation, stereotype, isAbstract)
// on the element record for id.
func (b *XMIBuilder) Prop(id, key, value string) *XMIBuilder {
	b.rec(id, "", "").props[key] = value
	return b
}

// Constraint attaches a constraint to the element record for id.
func (b *XMIBuilder) Constraint(id string, c ConstraintSpec) *XMIBuilder {
	r := b.rec(id, "", "")
	r.constraints = append(r.constraints, c)
	return b
}

// Link adds a link of the given kind from start to end. Legacy output
// lists it under both endpoints; 2013 output only under start.
func (b *XMIBuilder) Link(kind, id, start, end string) *XMIBuilder {
	l := LinkSpec{Kind: kind, ID: id, Start: start, End: end}
	r := b.rec(start, "", "")
	r.links = append(r.links, l)
	if b.flavor == FlavorLegacy && end != start {
		r := b.rec(end, "", "")
		r.links = append(r.links, l)
	}
	return b
}

// Connector adds a connectors-subtree record.
func (b *XMIBuilder) Connector(c ConnectorSpec) *XMIBuilder {
	b.connectors = append(b.connectors, c)
	return b
}

// Diagram adds a diagram owned by packageID.
func (b *XMIBuilder) Diagram(d DiagramSpec) *XMIBuilder {
	b.diagrams = append(b.diagrams, d)
	return b
}

// PrimitiveType adds a named type outside the package tree.
func (b *XMIBuilder) PrimitiveType(id, name string) *XMIBuilder {
	b.primitives = append(b.primitives, [2]string{id, name})
	return b
}

// LinkSpec describes one link.
type LinkSpec struct {
	Kind, ID, Start, End string
}

// ConnectorSpec describes a connector and its two ends.
type ConnectorSpec struct {
	ID     string
	Name   string
	Type   string
	Source EndSpec
	Target EndSpec
}

// EndSpec describes one connector end. Empty fields are omitted.
type EndSpec struct {
	IDRef         string
	ModelName     string
	Role          string
	Multiplicity  string
	Aggregation   string
	Documentation string
	Constraints   []ConstraintSpec
}

// ConstraintSpec describes a constraint record.
type ConstraintSpec struct {
	Name, Type, Weight, Status string
}

// DiagramSpec describes a diagram record.
type DiagramSpec struct {
	ID, PackageID, Name, Documentation string
}

// PackageBuilder adds content to a package.
type PackageBuilder struct {
	b        *XMIBuilder
	id, name string
	nested   bool
	packages []*PackageBuilder
	elements []*ElementBuilder
	order    []any
}

// Package adds a child package written as packagedElement.
func (p *PackageBuilder) Package(id, name string) *PackageBuilder {
	c := &PackageBuilder{b: p.b, id: id, name: name}
	p.packages = append(p.packages, c)
	p.order = append(p.order, c)
	p.b.rec(id, "uml:Package", name)
	return c
}

// NestedPackage adds a child package written as nestedPackage.
func (p *PackageBuilder) NestedPackage(id, name string) *PackageBuilder {
	c := p.Package(id, name)
	c.nested = true
	return c
}

// Element adds a packaged element of any xmi:type.
func (p *PackageBuilder) Element(typ, id, name string) *ElementBuilder {
	e := &ElementBuilder{b: p.b, typ: typ, id: id, name: name}
	p.elements = append(p.elements, e)
	p.order = append(p.order, e)
	if name != "" {
		p.b.rec(id, typ, name)
	}
	return e
}

// Class adds a uml:Class.
func (p *PackageBuilder) Class(id, name string) *ElementBuilder {
	return p.Element("uml:Class", id, name)
}

// Enum adds a uml:Enumeration.
func (p *PackageBuilder) Enum(id, name string) *ElementBuilder {
	return p.Element("uml:Enumeration", id, name)
}

// DataType adds a uml:DataType.
func (p *PackageBuilder) DataType(id, name string) *ElementBuilder {
	return p.Element("uml:DataType", id, name)
}

// ElementBuilder adds members to a packaged element.
type ElementBuilder struct {
	b             *XMIBuilder
	typ, id, name string
	attributes    []*AttributeBuilder
	operations    []OperationSpec
	literals      [][2]string
}

// ID returns the element identifier.
func (e *ElementBuilder) ID() string { return e.id }

// Attribute adds an ownedAttribute of type uml:Property.
func (e *ElementBuilder) Attribute(id, name string) *AttributeBuilder {
	a := &AttributeBuilder{e: e, id: id, name: name}
	e.attributes = append(e.attributes, a)
	return a
}

// Operation adds an ownedOperation.
func (e *ElementBuilder) Operation(op OperationSpec) *ElementBuilder {
	e.operations = append(e.operations, op)
	if op.Documentation != "" {
		r := e.b.rec(e.id, e.typ, e.name)
		r.docs = append(r.docs, [2]string{op.ID, op.Documentation})
	}
	return e
}

// Literal adds an ownedLiteral to an enumeration.
func (e *ElementBuilder) Literal(id, name string) *ElementBuilder {
	e.literals = append(e.literals, [2]string{id, name})
	return e
}

// Doc documents an attribute, operation or literal of this element.
func (e *ElementBuilder) Doc(memberID, text string) *ElementBuilder {
	r := e.b.rec(e.id, e.typ, e.name)
	r.docs = append(r.docs, [2]string{memberID, text})
	return e
}

// OperationSpec describes an ownedOperation.
type OperationSpec struct {
	ID, Name, ReturnType, Association, Documentation string
}

// AttributeBuilder sets the details of an ownedAttribute.
type AttributeBuilder struct {
	e                  *ElementBuilder
	id, name           string
	typeRef            string
	association        string
	derived            bool
	lower, upper       *bound
	lowerTyp, upperTyp string
}

type bound struct {
	value string
	set   bool
}

// Type sets the type idref.
func (a *AttributeBuilder) Type(idref string) *AttributeBuilder {
	a.typeRef = idref
	return a
}

// Association marks the attribute as an association end.
func (a *AttributeBuilder) Association(id string) *AttributeBuilder {
	a.association = id
	return a
}

// Derived sets isDerived.
func (a *AttributeBuilder) Derived() *AttributeBuilder {
	a.derived = true
	return a
}

// Bounds writes lowerValue and upperValue with value attributes.
func (a *AttributeBuilder) Bounds(lower, upper string) *AttributeBuilder {
	a.lower = &bound{value: lower, set: true}
	a.upper = &bound{value: upper, set: true}
	return a
}

// Lower writes a lowerValue of the given literal type. The value
// attribute is omitted when no value is passed.
func (a *AttributeBuilder) Lower(typ string, value ...string) *AttributeBuilder {
	a.lower, a.lowerTyp = newBound(value), typ
	return a
}

// Upper writes an upperValue of the given literal type. The value
// attribute is omitted when no value is passed.
func (a *AttributeBuilder) Upper(typ string, value ...string) *AttributeBuilder {
	a.upper, a.upperTyp = newBound(value), typ
	return a
}

func newBound(value []string) *bound {
	if len(value) == 0 {
		return &bound{}
	}
	return &bound{value: value[0], set: true}
}

// End returns to the owning element.
func (a *AttributeBuilder) End() *ElementBuilder { return a.e }

// String renders the document.
func (b *XMIBuilder) String() string {
	doc := b.Document()
	doc.Indent(2)
	s, err := doc.WriteToString()
	if err != nil {
		panic(err)
	}
	return s
}

// Bytes renders the document.
func (b *XMIBuilder) Bytes() []byte {
	return []byte(b.String())
}

// Document renders the builder into an etree document.
func (b *XMIBuilder) Document() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("xmi:XMI")
	if b.flavor == FlavorLegacy {
		root.CreateAttr("xmi:version", "2.1")
		root.CreateAttr("xmlns:uml", "http://schema.omg.org/spec/UML/2.1")
		root.CreateAttr("xmlns:xmi", "http://schema.omg.org/spec/XMI/2.1")
	} else {
		root.CreateAttr("xmlns:uml", "http://www.omg.org/spec/UML/20131001")
		root.CreateAttr("xmlns:xmi", "http://www.omg.org/spec/XMI/20131001")
	}
	root.CreateElement("xmi:Documentation").CreateAttr("exporter", "Enterprise Architect")

	model := root.CreateElement("uml:Model")
	model.CreateAttr("xmi:type", "uml:Model")
	model.CreateAttr("name", b.modelName)
	for _, p := range b.packages {
		p.render(model, false)
	}

	ext := root.CreateElement("xmi:Extension")
	ext.CreateAttr("extender", "Enterprise Architect")
	ext.CreateAttr("extenderID", "6.5")
	b.renderElements(ext.CreateElement("elements"))
	b.renderConnectors(ext.CreateElement("connectors"))
	if len(b.primitives) > 0 {
		pt := ext.CreateElement("primitivetypes")
		for _, p := range b.primitives {
			e := pt.CreateElement("packagedElement")
			e.CreateAttr("xmi:type", "uml:PrimitiveType")
			e.CreateAttr("xmi:id", p[0])
			e.CreateAttr("name", p[1])
		}
	}
	diagrams := ext.CreateElement("diagrams")
	for _, d := range b.diagrams {
		e := diagrams.CreateElement("diagram")
		e.CreateAttr("xmi:id", d.ID)
		e.CreateElement("model").CreateAttr("package", d.PackageID)
		props := e.CreateElement("properties")
		props.CreateAttr("name", d.Name)
		props.CreateAttr("type", "Logical")
		if d.Documentation != "" {
			props.CreateAttr("documentation", d.Documentation)
		}
	}
	return doc
}

func (p *PackageBuilder) render(parent *etree.Element, asNested bool) {
	tag := "packagedElement"
	if asNested {
		tag = "nestedPackage"
	}
	e := parent.CreateElement(tag)
	e.CreateAttr("xmi:type", "uml:Package")
	e.CreateAttr("xmi:id", p.id)
	e.CreateAttr("name", p.name)
	for _, item := range p.order {
		switch v := item.(type) {
		case *PackageBuilder:
			v.render(e, v.nested && p.b.flavor == FlavorLegacy)
		case *ElementBuilder:
			v.render(e)
		}
	}
}

func (el *ElementBuilder) render(parent *etree.Element) {
	e := parent.CreateElement("packagedElement")
	e.CreateAttr("xmi:type", el.typ)
	e.CreateAttr("xmi:id", el.id)
	if el.name != "" {
		e.CreateAttr("name", el.name)
	}
	for _, a := range el.attributes {
		a.render(e)
	}
	for _, op := range el.operations {
		o := e.CreateElement("ownedOperation")
		o.CreateAttr("xmi:id", op.ID)
		o.CreateAttr("name", op.Name)
		if op.Association != "" {
			o.CreateAttr("association", op.Association)
		}
		if op.ReturnType != "" {
			p := o.CreateElement("ownedParameter")
			p.CreateAttr("xmi:id", op.ID+"_return")
			p.CreateAttr("direction", "return")
			p.CreateElement("type").CreateAttr("xmi:idref", op.ReturnType)
		}
	}
	for _, l := range el.literals {
		o := e.CreateElement("ownedLiteral")
		o.CreateAttr("xmi:type", "uml:EnumerationLiteral")
		o.CreateAttr("xmi:id", l[0])
		o.CreateAttr("name", l[1])
	}
}

func (a *AttributeBuilder) render(parent *etree.Element) {
	e := parent.CreateElement("ownedAttribute")
	e.CreateAttr("xmi:type", "uml:Property")
	e.CreateAttr("xmi:id", a.id)
	if a.name != "" {
		e.CreateAttr("name", a.name)
	}
	if a.association != "" {
		e.CreateAttr("association", a.association)
	}
	if a.derived {
		e.CreateAttr("isDerived", "true")
	} else {
		e.CreateAttr("isDerived", "false")
	}
	renderBound(e, "lowerValue", a.lowerTyp, "uml:LiteralInteger", a.id+"_lower", a.lower)
	renderBound(e, "upperValue", a.upperTyp, "uml:LiteralUnlimitedNatural", a.id+"_upper", a.upper)
	if a.typeRef != "" {
		e.CreateElement("type").CreateAttr("xmi:idref", a.typeRef)
	}
}

func renderBound(parent *etree.Element, tag, typ, dflt, id string, b *bound) {
	if b == nil {
		return
	}
	if typ == "" {
		typ = dflt
	}
	e := parent.CreateElement(tag)
	e.CreateAttr("xmi:type", typ)
	e.CreateAttr("xmi:id", id)
	if b.set {
		e.CreateAttr("value", b.value)
	}
}

func (b *XMIBuilder) renderElements(list *etree.Element) {
	for _, r := range b.records {
		e := list.CreateElement("element")
		e.CreateAttr("xmi:idref", r.id)
		if r.typ != "" {
			e.CreateAttr("xmi:type", r.typ)
		}
		if r.name != "" {
			e.CreateAttr("name", r.name)
		}
		e.CreateAttr("scope", "public")
		props := e.CreateElement("properties")
		props.CreateAttr("isSpecification", "false")
		for _, k := range []string{"documentation", "stereotype", "isAbstract"} {
			if v, ok := r.props[k]; ok {
				props.CreateAttr(k, v)
			}
		}
		if len(r.docs) > 0 {
			attrs := e.CreateElement("attributes")
			for _, d := range r.docs {
				a := attrs.CreateElement("attribute")
				a.CreateAttr("xmi:idref", d[0])
				a.CreateElement("documentation").CreateAttr("value", d[1])
			}
		}
		if len(r.constraints) > 0 {
			renderConstraints(e.CreateElement("constraints"), r.constraints)
		}
		if len(r.links) > 0 {
			links := e.CreateElement("links")
			for _, l := range r.links {
				le := links.CreateElement(l.Kind)
				le.CreateAttr("xmi:id", l.ID)
				le.CreateAttr("start", l.Start)
				le.CreateAttr("end", l.End)
			}
		}
	}
}

func (b *XMIBuilder) renderConnectors(list *etree.Element) {
	for _, c := range b.connectors {
		e := list.CreateElement("connector")
		e.CreateAttr("xmi:idref", c.ID)
		if c.Name != "" {
			e.CreateAttr("name", c.Name)
		}
		renderEnd(e.CreateElement("source"), c.Source)
		renderEnd(e.CreateElement("target"), c.Target)
		if c.Type != "" {
			e.CreateElement("properties").CreateAttr("ea_type", c.Type)
		}
	}
}

func renderEnd(e *etree.Element, s EndSpec) {
	e.CreateAttr("xmi:idref", s.IDRef)
	m := e.CreateElement("model")
	m.CreateAttr("ea_localid", "1")
	if s.ModelName != "" {
		m.CreateAttr("name", s.ModelName)
	}
	role := e.CreateElement("role")
	role.CreateAttr("visibility", "Public")
	if s.Role != "" {
		role.CreateAttr("name", s.Role)
	}
	typ := e.CreateElement("type")
	if s.Multiplicity != "" {
		typ.CreateAttr("multiplicity", s.Multiplicity)
	}
	if s.Aggregation != "" {
		typ.CreateAttr("aggregation", s.Aggregation)
	}
	if len(s.Constraints) > 0 {
		renderConstraints(e.CreateElement("constraints"), s.Constraints)
	}
	if s.Documentation != "" {
		e.CreateElement("documentation").CreateAttr("value", s.Documentation)
	}
}

func renderConstraints(list *etree.Element, cs []ConstraintSpec) {
	for _, c := range cs {
		e := list.CreateElement("constraint")
		e.CreateAttr("name", c.Name)
		if c.Type != "" {
			e.CreateAttr("type", c.Type)
		}
		if c.Weight != "" {
			e.CreateAttr("weight", c.Weight)
		}
		if c.Status != "" {
			e.CreateAttr("status", c.Status)
		}
	}
}
