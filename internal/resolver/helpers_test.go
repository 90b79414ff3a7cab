package resolver

import (
	"testing"

	"github.com/umlkit/goxmi/internal/dom"
	"github.com/umlkit/goxmi/internal/testutil"
	"github.com/umlkit/goxmi/uml"
)

var flavors = []struct {
	name   string
	flavor testutil.Flavor
}{
	{"legacy", testutil.FlavorLegacy},
	{"xmi2013", testutil.Flavor2013},
}

func parseFixture(t *testing.T, b *testutil.XMIBuilder) dom.Node {
	t.Helper()
	doc, err := dom.ParseString(b.String())
	testutil.NoError(t, err, "parse fixture")
	return doc.Root()
}

// resolveFixture resolves a builder document with every diagnostic reported.
func resolveFixture(t *testing.T, b *testutil.XMIBuilder) *uml.Document {
	t.Helper()
	doc, err := Resolve(parseFixture(t, b), Options{Config: uml.StrictConfig()})
	testutil.NoError(t, err, "resolve fixture")
	return doc
}

func mustClass(t *testing.T, doc *uml.Document, name string) *uml.Class {
	t.Helper()
	c := doc.FindClass(name)
	if c == nil {
		t.Fatalf("class %q not found", name)
	}
	return c
}

func diagCodes(doc *uml.Document) []string {
	codes := make([]string, 0, len(doc.Diagnostics))
	for _, d := range doc.Diagnostics {
		codes = append(codes, d.Code)
	}
	return codes
}

func hasDiag(doc *uml.Document, code, xmiID string) bool {
	for _, d := range doc.Diagnostics {
		if d.Code == code && (xmiID == "" || d.XMIID == xmiID) {
			return true
		}
	}
	return false
}

func testDiagConfig() uml.DiagnosticConfig {
	return uml.StrictConfig()
}
