package cliutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/umlkit/goxmi/internal/testutil"
	"github.com/umlkit/goxmi/uml"
)

func TestSuggest(t *testing.T) {
	names := []string{"Book", "EBook", "Author", "Genre", "Loan", "Books", "Catalog"}

	tests := []struct {
		query string
		limit int
		want  []string
	}{
		{"book", 5, []string{"Book", "Books", "EBook"}},
		{"Boko", 2, []string{"Book", "Books"}},
		{"Autor", 5, []string{"Author"}},
		{"catalogue", 5, []string{"Catalog"}},
		{"Zebra", 5, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			testutil.SliceEqual(t, tt.want, Suggest(tt.query, names, tt.limit))
		})
	}
}

func TestSuggestSkipsDuplicatesAndEmpty(t *testing.T) {
	got := Suggest("Bok", []string{"", "Book", "Book"}, 5)
	testutil.SliceEqual(t, []string{"Book"}, got)
}

func TestFormatDiagnostic(t *testing.T) {
	s := NewStyles(&bytes.Buffer{})
	got := s.FormatDiagnostic(uml.Diagnostic{
		Severity: uml.SeverityWarning,
		Code:     "connector-missing",
		Message:  "no connector for link",
		XMIID:    "L1",
	})
	testutil.Equal(t, "warning: [connector-missing] L1: no connector for link", got)

	got = s.FormatDiagnostic(uml.Diagnostic{Severity: uml.SeverityInfo, Message: "note"})
	testutil.Equal(t, "info: note", got)
}

func TestGetOutput(t *testing.T) {
	var fallback bytes.Buffer
	w, done, err := GetOutput("", &fallback)
	testutil.NoError(t, err)
	testutil.True(t, w == &fallback, "empty name should return the fallback")
	done()

	path := filepath.Join(t.TempDir(), "out.json")
	w, done, err = GetOutput(path, &fallback)
	testutil.NoError(t, err)
	_, _ = w.Write([]byte("{}"))
	done()

	data, err := os.ReadFile(path)
	testutil.NoError(t, err)
	testutil.Equal(t, "{}", string(data))
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, "failed to load %s", "x.xmi")
	testutil.Equal(t, "error: failed to load x.xmi\n", buf.String())
}
