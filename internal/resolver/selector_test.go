package resolver

import (
	"testing"

	"github.com/umlkit/goxmi/internal/dialect"
	"github.com/umlkit/goxmi/internal/dom"
	"github.com/umlkit/goxmi/internal/testutil"
)

const selectorTree = `<m xmlns:xmi="x" xmi:type="uml:Model">
  <packagedElement xmi:type="uml:Package" xmi:id="P1">
    <packagedElement xmi:type="uml:Class" xmi:id="C1"/>
    <packagedElement xmi:type="uml:Package" xmi:id="P2">
      <packagedElement xmi:type="uml:Class" xmi:id="C2"/>
      <ownedComment xmi:type="uml:Class" xmi:id="X1"/>
    </packagedElement>
    <packagedElement xmi:type="uml:Enumeration" xmi:id="E1"/>
  </packagedElement>
  <packagedElement xmi:type="uml:Class" xmi:id="C3"/>
</m>`

func ids(nodes []dom.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID()
	}
	return out
}

func byRelation(relation string) func(dom.Node) []dom.Node {
	return func(n dom.Node) []dom.Node { return n.Children(relation) }
}

func TestSelectAll(t *testing.T) {
	doc, err := dom.ParseString(selectorTree)
	testutil.NoError(t, err)
	root := doc.Root()

	tests := []struct {
		name string
		kind string
		want []string
	}{
		{"classes pre-order", "uml:Class", []string{"C1", "C2", "C3"}},
		{"packages", "uml:Package", []string{"P1", "P2"}},
		{"leaf kind", "uml:Enumeration", []string{"E1"}},
		{"any kind includes root", "", []string{"", "P1", "C1", "P2", "C2", "E1", "C3"}},
		{"root matches its own kind", "uml:Model", []string{""}},
		{"no match", "uml:Interface", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(selectAll(root, tt.kind, byRelation("packagedElement")))
			testutil.SliceEqual(t, tt.want, got)
		})
	}
}

func TestSelectAllInvalidRoot(t *testing.T) {
	testutil.Len(t, selectAll(dom.Node{}, "", byRelation("packagedElement")), 0)
}

func TestSelectChildren(t *testing.T) {
	doc, err := dom.ParseString(selectorTree)
	testutil.NoError(t, err)
	p1 := doc.Root().Child("packagedElement")

	testutil.SliceEqual(t, []string{"C1"}, ids(selectChildren(p1, "packagedElement", "uml:Class")))
	testutil.SliceEqual(t, []string{"C1", "E1"},
		ids(selectChildren(p1, "packagedElement", "uml:Class", "uml:Enumeration")))
	testutil.SliceEqual(t, []string{"C1", "P2", "E1"}, ids(selectChildren(p1, "packagedElement")))
}

func TestAllPackagedElements(t *testing.T) {
	b := testutil.NewXMI(testutil.FlavorLegacy)
	p := b.Package("P1", "Root")
	p.Class("C1", "A")
	p.NestedPackage("P2", "Nested").Class("C2", "B")
	p.Enum("E1", "Color")
	root := parseFixture(t, b)

	ctx := newContext(root, nil, testDiagConfig())
	ctx.Dialect = dialect.NewLegacy(root, dialect.Options{})
	ctx.Model, _ = ctx.Dialect.Model(root)

	testutil.SliceEqual(t, []string{"P1", "C1", "P2", "C2", "E1"}, ids(ctx.allPackagedElements()))
}
