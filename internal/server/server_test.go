package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umlkit/goxmi"
	"github.com/umlkit/goxmi/uml"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	doc, err := goxmi.LoadFile(context.Background(), filepath.Join("..", "..", "testdata", "legacy.xmi"),
		goxmi.WithDiagnosticConfig(uml.StrictConfig()))
	require.NoError(t, err)

	srv := New(nil)
	srv.Set("catalog", doc)
	return srv
}

func get(t *testing.T, srv *Server, path string, out any) int {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	srv.Handler().ServeHTTP(w, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
	}
	return w.Code
}

func TestHealthCheck(t *testing.T) {
	srv := New(nil)
	var body map[string]string
	assert.Equal(t, http.StatusOK, get(t, srv, "/health", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestDocuments(t *testing.T) {
	srv := setupServer(t)

	var docs []documentSummary
	require.Equal(t, http.StatusOK, get(t, srv, "/v1/documents", &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "catalog", docs[0].ID)
	assert.Equal(t, "EA_Model", docs[0].Name)
	assert.Equal(t, goxmi.DialectLegacy, docs[0].Dialect)
	assert.Positive(t, docs[0].Stats.Classes)

	var doc map[string]any
	require.Equal(t, http.StatusOK, get(t, srv, "/v1/documents/catalog", &doc))
	assert.Equal(t, "EA_Model", doc["name"])
}

func TestUnknownDocument(t *testing.T) {
	srv := setupServer(t)

	var body map[string]string
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/v1/documents/missing/classes", &body))
	assert.Contains(t, body["error"], "missing")
}

func TestPackages(t *testing.T) {
	srv := setupServer(t)

	var pkgs []packageSummary
	require.Equal(t, http.StatusOK, get(t, srv, "/v1/documents/catalog/packages", &pkgs))
	require.Len(t, pkgs, 2)
	assert.Equal(t, "Catalog", pkgs[0].Name)
	assert.Empty(t, pkgs[0].ParentXMIID)
	assert.Contains(t, pkgs[0].Classes, "Book")
	assert.Contains(t, pkgs[0].Classes, "ISBN")
	assert.Equal(t, []string{"Genre"}, pkgs[0].Enums)
	assert.Equal(t, "Loans", pkgs[1].Name)
	assert.Equal(t, pkgs[0].XMIID, pkgs[1].ParentXMIID)
}

func TestClasses(t *testing.T) {
	srv := setupServer(t)

	t.Run("by name", func(t *testing.T) {
		var classes []map[string]any
		require.Equal(t, http.StatusOK, get(t, srv, "/v1/documents/catalog/classes?name=Book", &classes))
		require.Len(t, classes, 1)
		assert.Equal(t, "EAID_BOOK", classes[0]["xmi_id"])
		assert.Equal(t, "Catalog", classes[0]["package"])
	})

	t.Run("by package", func(t *testing.T) {
		var classes []map[string]any
		require.Equal(t, http.StatusOK, get(t, srv, "/v1/documents/catalog/classes?package=Loans", &classes))
		require.Len(t, classes, 1)
		assert.Equal(t, "Loan", classes[0]["name"])
	})

	t.Run("no match", func(t *testing.T) {
		var classes []map[string]any
		require.Equal(t, http.StatusOK, get(t, srv, "/v1/documents/catalog/classes?name=Nope", &classes))
		assert.Empty(t, classes)
	})
}

func TestClassByID(t *testing.T) {
	srv := setupServer(t)

	var class map[string]any
	require.Equal(t, http.StatusOK, get(t, srv, "/v1/documents/catalog/classes/EAID_AUTHOR", &class))
	assert.Equal(t, "Author", class["name"])

	var body map[string]string
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/v1/documents/catalog/classes/EAID_NOPE", &body))
}

func TestEnums(t *testing.T) {
	srv := setupServer(t)

	var enums []map[string]any
	require.Equal(t, http.StatusOK, get(t, srv, "/v1/documents/catalog/enums", &enums))
	require.Len(t, enums, 1)
	assert.Equal(t, "Genre", enums[0]["name"])
}

func TestDiagnostics(t *testing.T) {
	srv := New(nil)
	srv.Set("d", &uml.Document{
		Name: "M",
		Diagnostics: []uml.Diagnostic{
			{Severity: uml.SeverityError, Code: "a", Message: "bad"},
			{Severity: uml.SeverityInfo, Code: "b", Message: "fyi"},
		},
	})

	var all []map[string]any
	require.Equal(t, http.StatusOK, get(t, srv, "/v1/documents/d/diagnostics", &all))
	assert.Len(t, all, 2)

	var errs []map[string]any
	require.Equal(t, http.StatusOK, get(t, srv, "/v1/documents/d/diagnostics?severity=warning", &errs))
	require.Len(t, errs, 1)
	assert.Equal(t, "error", errs[0]["severity"])

	var body map[string]string
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/v1/documents/d/diagnostics?severity=loud", &body))
}

func TestSetReplacesAndRemove(t *testing.T) {
	srv := New(nil)
	srv.Set("a", &uml.Document{Name: "First"})
	srv.Set("a", &uml.Document{Name: "Second"})
	srv.Set("b", &uml.Document{Name: "Other"})
	assert.Equal(t, []string{"a", "b"}, srv.IDs())

	var doc map[string]any
	require.Equal(t, http.StatusOK, get(t, srv, "/v1/documents/a", &doc))
	assert.Equal(t, "Second", doc["name"])

	assert.True(t, srv.Remove("a"))
	assert.False(t, srv.Remove("a"))
	assert.Equal(t, []string{"b"}, srv.IDs())
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	srv := New(logger)

	get(t, srv, "/health", nil)
	assert.Contains(t, buf.String(), "component=server")
	assert.Contains(t, buf.String(), "path=/health")
	assert.Contains(t, buf.String(), "status=200")
}

func TestServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	srv := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
