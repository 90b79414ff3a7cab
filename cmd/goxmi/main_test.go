package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/umlkit/goxmi/internal/store/sqlite"
	"github.com/umlkit/goxmi/internal/testutil"
)

var legacyFixture = filepath.Join("..", "..", "testdata", "legacy.xmi")

// execute runs the CLI with args and returns the exit code, stdout and stderr.
func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(ctx, args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFixture(t *testing.T, b *testutil.XMIBuilder) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.xmi")
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o644))
	return path
}

func writeCycleFixture(t *testing.T) string {
	t.Helper()
	b := testutil.NewXMI(testutil.FlavorLegacy)
	p := b.Package("P1", "P")
	p.Class("A1", "A")
	p.Class("B1", "B")
	b.Link("Generalization", "G1", "A1", "B1").
		Link("Generalization", "G2", "B1", "A1")
	return writeFixture(t, b)
}

// writeConnectorlessFixture has one association without a connector
// record, which is reported at warning severity.
func writeConnectorlessFixture(t *testing.T) string {
	t.Helper()
	b := testutil.NewXMI(testutil.FlavorLegacy)
	p := b.Package("P1", "P")
	p.Class("A1", "A")
	p.Class("B1", "B")
	b.Link("Association", "L1", "A1", "B1")
	return writeFixture(t, b)
}

func TestVersion(t *testing.T) {
	code, out, _ := execute(t, "version")
	assert.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "goxmi "), out)
}

func TestUnknownCommand(t *testing.T) {
	code, _, errOut := execute(t, "frobnicate")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "unknown command")
}

func TestLoad(t *testing.T) {
	code, out, _ := execute(t, "load", "--stats", legacyFixture)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Loaded EA_Model from "+legacyFixture+" (legacy)")
	assert.Contains(t, out, "2 packages, 4 classes, 1 data types, 1 enums")
	assert.Contains(t, out, "Statistics:")
}

func TestLoadMissingFile(t *testing.T) {
	code, _, errOut := execute(t, "load", legacyFixture, "no-such-file.xmi")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "failed to load no-such-file.xmi")
	assert.Contains(t, errOut, "1 of 2 files failed")
}

func TestLoadBadStrictness(t *testing.T) {
	code, _, errOut := execute(t, "--strictness", "loud", "load", legacyFixture)
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "unknown strictness")
}

func TestLoadForcedDialect(t *testing.T) {
	code, out, _ := execute(t, "--dialect", "xmi2013", "load",
		filepath.Join("..", "..", "testdata", "xmi2013.xmi"))
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "(xmi2013)")

	code, _, errOut := execute(t, "--dialect", "xmi1.1", "load", legacyFixture)
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "xmi1.1")
}

func TestDumpFormats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		code, out, _ := execute(t, "dump", legacyFixture)
		require.Equal(t, exitOK, code)
		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "EA_Model", doc["name"])
		assert.Contains(t, out, "\n  \"packages\"")
	})

	t.Run("compact json", func(t *testing.T) {
		code, out, _ := execute(t, "dump", "--compact", legacyFixture)
		require.Equal(t, exitOK, code)
		assert.Equal(t, 1, strings.Count(out, "\n"))
	})

	t.Run("yaml", func(t *testing.T) {
		code, out, _ := execute(t, "dump", "--format", "yaml", legacyFixture)
		require.Equal(t, exitOK, code)
		var doc map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "EA_Model", doc["name"])
	})

	t.Run("toml", func(t *testing.T) {
		code, out, _ := execute(t, "dump", "--format", "toml", legacyFixture)
		require.Equal(t, exitOK, code)
		var doc map[string]any
		require.NoError(t, toml.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "EA_Model", doc["name"])
	})

	t.Run("unknown", func(t *testing.T) {
		code, _, errOut := execute(t, "dump", "--format", "xml", legacyFixture)
		assert.Equal(t, exitError, code)
		assert.Contains(t, errOut, `unknown format "xml"`)
	})
}

func TestDumpNoDiagnostics(t *testing.T) {
	path := writeConnectorlessFixture(t)

	_, out, _ := execute(t, "--strictness", "strict", "dump", path)
	assert.Contains(t, out, "connector-missing")
	assert.Contains(t, out, `"diagnostics"`)

	_, out, _ = execute(t, "--strictness", "strict", "dump", "--no-diagnostics", path)
	assert.NotContains(t, out, `"diagnostics"`)
}

func TestDumpToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	code, out, _ := execute(t, "dump", "-o", path, legacyFixture)
	require.Equal(t, exitOK, code)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "EA_Model"`)
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("GOXMI_FORMAT", "yaml")
	code, out, _ := execute(t, "dump", legacyFixture)
	require.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "name: EA_Model"), out)
}

func TestConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "goxmi.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("format: yaml\n"), 0o644))

	code, out, _ := execute(t, "--config", cfg, "dump", legacyFixture)
	require.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "name: EA_Model"), out)

	// Flags win over the config file.
	code, out, _ = execute(t, "--config", cfg, "dump", "--format", "json", legacyFixture)
	require.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "{"), out)

	code, _, errOut := execute(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "version")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "reading config")
}

func TestGet(t *testing.T) {
	t.Run("class", func(t *testing.T) {
		code, out, _ := execute(t, "get", legacyFixture, "Book")
		require.Equal(t, exitOK, code)
		assert.Contains(t, out, "Book (uml:Class)")
		assert.Contains(t, out, "aggregation Author as authors M..*")
		assert.Contains(t, out, "summary()")
	})

	t.Run("enum as json", func(t *testing.T) {
		code, out, _ := execute(t, "get", "--format", "json", legacyFixture, "Genre")
		require.Equal(t, exitOK, code)
		var e map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &e))
		assert.Equal(t, "Genre", e["name"])
	})

	t.Run("package", func(t *testing.T) {
		code, out, _ := execute(t, "get", legacyFixture, "Loans")
		require.Equal(t, exitOK, code)
		assert.Contains(t, out, "Loans (package)")
	})

	t.Run("suggestions", func(t *testing.T) {
		code, _, errOut := execute(t, "get", legacyFixture, "Boko")
		assert.Equal(t, exitError, code)
		assert.Contains(t, errOut, `no class, enumeration or package named "Boko"`)
		assert.Contains(t, errOut, "did you mean Book")
	})
}

func TestTree(t *testing.T) {
	code, out, _ := execute(t, "tree", "--members", legacyFixture)
	require.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "EA_Model\n"), out)
	assert.Contains(t, out, "└── Catalog")
	assert.Contains(t, out, "├── Book")
	assert.Contains(t, out, "Genre «enum»")
	assert.Contains(t, out, "title")
	assert.Contains(t, out, "Loans")
}

func TestLint(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		code, out, _ := execute(t, "lint", legacyFixture)
		assert.Equal(t, exitOK, code)
		assert.Contains(t, out, "No issues found in 1 files")
	})

	t.Run("cycle", func(t *testing.T) {
		code, out, _ := execute(t, "lint", writeCycleFixture(t))
		assert.Equal(t, exitIssues, code)
		assert.Contains(t, out, "[generalization-cycle]")
		assert.Contains(t, out, "found 1 issues")
	})

	t.Run("ignored", func(t *testing.T) {
		code, _, _ := execute(t, "lint", "--ignore", "generalization-*", writeCycleFixture(t))
		assert.Equal(t, exitOK, code)
	})

	t.Run("json", func(t *testing.T) {
		code, out, _ := execute(t, "lint", "--format", "json", writeCycleFixture(t))
		assert.Equal(t, exitIssues, code)
		var result map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.EqualValues(t, 1, result["total"])
	})

	t.Run("quiet", func(t *testing.T) {
		code, out, _ := execute(t, "lint", "-q", writeCycleFixture(t))
		assert.Equal(t, exitIssues, code)
		assert.Empty(t, out)
	})

	t.Run("unreadable", func(t *testing.T) {
		code, _, _ := execute(t, "lint", "no-such-file.xmi")
		assert.Equal(t, exitError, code)
	})
}

func TestExport(t *testing.T) {
	db := filepath.Join(t.TempDir(), "model.db")
	code, out, _ := execute(t, "export", "--db", db, legacyFixture)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Exported EA_Model from "+legacyFixture)

	store, err := sqlite.Open(db)
	require.NoError(t, err)
	defer store.Close()
	docs, err := store.Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, legacyFixture, docs[0].Source)
}

func TestServeStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	code, out, errOut := executeContext(t, ctx, "serve", "--addr", "127.0.0.1:0", legacyFixture)
	assert.Equal(t, exitOK, code, errOut)
	assert.Contains(t, out, "Serving 1 documents on 127.0.0.1:0")
}

func TestWatchStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	code, out, errOut := executeContext(t, ctx, "watch", legacyFixture)
	assert.Equal(t, exitOK, code, errOut)
	assert.Contains(t, out, legacyFixture+": EA_Model")
}
