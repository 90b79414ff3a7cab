package types

import (
	"testing"

	"github.com/umlkit/goxmi/uml"
)

func TestAllDiagnosticCodesUnique(t *testing.T) {
	seen := make(map[string]string)
	for _, info := range AllDiagnosticCodes() {
		if info.Code == "" {
			t.Errorf("empty code in phase %q", info.Phase)
			continue
		}
		if phase, dup := seen[info.Code]; dup {
			t.Errorf("code %q registered twice (phases %q and %q)", info.Code, phase, info.Phase)
		}
		seen[info.Code] = info.Phase
	}
}

func TestLoggerNilSafe(t *testing.T) {
	var l Logger
	if l.Enabled(LevelTrace) {
		t.Error("nil logger should not be enabled")
	}
	if l.TraceEnabled() {
		t.Error("nil logger should not report trace enabled")
	}
	// Must not panic.
	l.Log(LevelTrace, "ignored")
	l.Trace("ignored")

	if Component(nil, "resolver") != nil {
		t.Error("Component(nil) should return nil")
	}
}

func TestReporter(t *testing.T) {
	var got []uml.Diagnostic
	r := Reporter(func(d uml.Diagnostic) { got = append(got, d) })
	r.Report(uml.SeverityInfo, DiagReferenceMiss, "EAID_1", "member end %q not found", "EAID_2")
	r.Report(uml.SeverityWarning, DiagExtensionMissing, "", "no extension")

	if len(got) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(got))
	}
	if got[0].Message != `member end "EAID_2" not found` {
		t.Errorf("message = %q", got[0].Message)
	}
	if got[0].XMIID != "EAID_1" || got[0].Code != DiagReferenceMiss {
		t.Errorf("unexpected diagnostic %+v", got[0])
	}

	// Nil reporter discards.
	var none Reporter
	none.Report(uml.SeverityFatal, "x", "", "ignored")
}
