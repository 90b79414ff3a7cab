package resolver

import (
	"testing"

	"github.com/umlkit/goxmi/internal/testutil"
	"github.com/umlkit/goxmi/uml"
)

// domainFixture covers every member kind the assembler reads.
func domainFixture(flavor testutil.Flavor) *testutil.XMIBuilder {
	b := testutil.NewXMI(flavor).ModelName("Shop")
	b.PrimitiveType("EAJava_int", "int")

	p := b.Package("P1", "Domain")
	person := p.Class("PER1", "Person")
	person.Attribute("AGE1", "age").Type("EAJava_int").Bounds("0", "1")
	person.Attribute("NICK1", "nickname").Type("EAJava_String_0..1__")
	person.Attribute("TAG1", "tags").Derived()
	person.Attribute("HOME1", "home").Type("ADDR1").Association("AS1")
	person.Operation(testutil.OperationSpec{ID: "OP1", Name: "greet", ReturnType: "EAJava_int", Documentation: "says hi"})
	person.Operation(testutil.OperationSpec{ID: "OP2", Name: "assocOp", Association: "AS1"})
	person.Doc("AGE1", "years lived")

	p.Class("ADDR1", "Address")
	p.Element(uml.TypeAssociationClass, "MEM1", "Membership")
	p.Enum("COL1", "Color").Literal("RED1", "red").Literal("GRN1", "green").Doc("RED1", "warm")
	p.DataType("MON1", "Money")
	p.Package("INNER1", "Inner").DataType("NEST1", "Nested")

	b.Prop("PER1", "documentation", "A human").
		Prop("PER1", "stereotype", "entity").
		Prop("PER1", "isAbstract", "true").
		Prop("P1", "documentation", "Core types").
		Constraint("PER1", testutil.ConstraintSpec{Name: "age &gt;= 0", Type: "Invariant", Weight: "1", Status: "Approved"}).
		Diagram(testutil.DiagramSpec{ID: "D1", PackageID: "P1", Name: "Overview", Documentation: "main view"})
	return b
}

func TestAssemblePackage(t *testing.T) {
	for _, f := range flavors {
		t.Run(f.name, func(t *testing.T) {
			doc := resolveFixture(t, domainFixture(f.flavor))

			testutil.Equal(t, "Shop", doc.Name)
			testutil.Len(t, doc.Packages, 1)
			p := doc.Packages[0]
			testutil.Equal(t, "P1", p.XMIID)
			testutil.Equal(t, "Domain", p.Name)
			testutil.Equal(t, "Core types", p.Definition)

			names := make([]string, len(p.Classes))
			for i, c := range p.Classes {
				names[i] = c.Name
			}
			testutil.SliceEqual(t, []string{"Person", "Address", "Membership"}, names)
			testutil.Equal(t, uml.TypeAssociationClass, p.Classes[2].Type)

			testutil.Len(t, p.DataTypes, 1, "nested data types stay in their package")
			testutil.Equal(t, "Money", p.DataTypes[0].Name)
			testutil.True(t, p.DataTypes[0].IsDataType())

			testutil.Len(t, p.Packages, 1)
			testutil.Equal(t, "Inner", p.Packages[0].Name)
			testutil.Len(t, p.Packages[0].DataTypes, 1)
			testutil.Equal(t, "Nested", p.Packages[0].DataTypes[0].Name)

			testutil.Len(t, p.Diagrams, 1)
			testutil.Equal(t, uml.Diagram{
				XMIID:        "D1",
				Name:         "Overview",
				Definition:   "main view",
				PackageXMIID: "P1",
			}, p.Diagrams[0])
		})
	}
}

func TestAssembleClass(t *testing.T) {
	for _, f := range flavors {
		t.Run(f.name, func(t *testing.T) {
			doc := resolveFixture(t, domainFixture(f.flavor))
			person := mustClass(t, doc, "Person")

			testutil.Equal(t, uml.TypeClass, person.Type)
			testutil.True(t, person.IsAbstract)
			testutil.Equal(t, "A human", person.Definition)
			testutil.Equal(t, "entity", person.Stereotype)
			testutil.Len(t, person.Associations, 0)

			testutil.Len(t, person.Attributes, 3, "association ends are excluded")
			testutil.Equal(t, uml.Attribute{
				XMIID:       "AGE1",
				Name:        "age",
				Type:        "int",
				TypeXMIID:   "EAJava_int",
				Cardinality: uml.Cardinality{Min: uml.Conditional, Max: "1"},
				Definition:  "years lived",
			}, person.Attributes[0])

			nick := person.Attributes[1]
			testutil.Equal(t, "EAJava_String_0..1__", nick.Type, "unresolved types keep the raw id")
			testutil.True(t, nick.Cardinality.IsZero())
			testutil.True(t, hasDiag(doc, "type-unresolved", "NICK1"))

			tags := person.Attributes[2]
			testutil.True(t, tags.IsDerived)
			testutil.Equal(t, "", tags.Type)

			testutil.Len(t, person.Operations, 1)
			testutil.Equal(t, uml.Operation{
				XMIID:           "OP1",
				Name:            "greet",
				ReturnTypeXMIID: "EAJava_int",
				Definition:      "says hi",
			}, person.Operations[0])

			testutil.Len(t, person.Constraints, 1)
			testutil.Equal(t, uml.Constraint{
				Name:   "age >= 0",
				Type:   "Invariant",
				Weight: "1",
				Status: "Approved",
			}, person.Constraints[0])

			address := mustClass(t, doc, "Address")
			testutil.False(t, address.IsAbstract)
			testutil.Len(t, address.Attributes, 0)
		})
	}
}

func TestAssembleEnum(t *testing.T) {
	for _, f := range flavors {
		t.Run(f.name, func(t *testing.T) {
			doc := resolveFixture(t, domainFixture(f.flavor))

			e := doc.FindEnum("Color")
			testutil.NotNil(t, e)
			testutil.Equal(t, "COL1", e.XMIID)
			testutil.SliceEqual(t, []uml.EnumLiteral{
				{XMIID: "RED1", Name: "red", Type: "uml:EnumerationLiteral", Definition: "warm"},
				{XMIID: "GRN1", Name: "green", Type: "uml:EnumerationLiteral"},
			}, e.Values)
		})
	}
}

func TestAssembleNestingOrder(t *testing.T) {
	b := testutil.NewXMI(testutil.FlavorLegacy)
	root := b.Package("R", "Root")
	a := root.Package("A", "A")
	a.Package("A1", "A1").Class("C1", "Deep")
	a.NestedPackage("A2", "A2")
	root.Package("B", "B")
	doc := resolveFixture(t, b)

	var order []string
	for p := range doc.AllPackages() {
		order = append(order, p.Name)
	}
	testutil.SliceEqual(t, []string{"Root", "A", "A1", "A2", "B"}, order)

	testutil.Len(t, doc.Packages, 1)
	r := doc.Packages[0]
	testutil.SliceEqual(t, []string{"A", "B"}, packageNames(r.Packages))
	pa := r.Packages[0]
	testutil.SliceEqual(t, []string{"A1", "A2"}, packageNames(pa.Packages))
	testutil.Len(t, pa.Classes, 0)
	a1 := pa.Packages[0]
	testutil.Len(t, a1.Classes, 1)
	testutil.Equal(t, "Deep", a1.Classes[0].Name)
	testutil.Len(t, a1.Packages, 0)
	testutil.Len(t, r.Packages[1].Packages, 0)
}

func packageNames(pkgs []uml.Package) []string {
	names := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		names = append(names, p.Name)
	}
	return names
}

func TestAttributeBoundsByDialect(t *testing.T) {
	build := func(flavor testutil.Flavor) *testutil.XMIBuilder {
		b := testutil.NewXMI(flavor)
		c := b.Package("P1", "P").Class("C1", "C")
		c.Attribute("X1", "x").Lower("uml:LiteralInteger").Upper("uml:LiteralUnlimitedNatural", "-1")
		return b
	}

	legacy := resolveFixture(t, build(testutil.FlavorLegacy))
	got := mustClass(t, legacy, "C").Attributes[0].Cardinality
	testutil.Equal(t, uml.Cardinality{Max: "-1"}, got, "legacy reads values verbatim")

	modern := resolveFixture(t, build(testutil.Flavor2013))
	got = mustClass(t, modern, "C").Attributes[0].Cardinality
	testutil.Equal(t, uml.Cardinality{Max: "*"}, got, "a valueless lower bound stays absent")
}
