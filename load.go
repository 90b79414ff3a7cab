package goxmi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/umlkit/goxmi/internal/dom"
	"github.com/umlkit/goxmi/internal/resolver"
	"github.com/umlkit/goxmi/internal/types"
	"github.com/umlkit/goxmi/uml"
)

// Load loads the first document of source, in name order.
//
// Example:
//
//	doc, err := goxmi.Load(ctx,
//	    goxmi.MustDir("./models"),
//	    goxmi.WithLogger(slog.Default()),
//	)
func Load(ctx context.Context, source Source, opts ...LoadOption) (*Document, error) {
	if source == nil {
		return nil, ErrNoSources
	}
	names, err := source.ListDocuments()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrNoSources
	}
	return loadNamed(ctx, source, names[0], newLoadConfig(opts))
}

// LoadFile loads one XMI file.
func LoadFile(ctx context.Context, path string, opts ...LoadOption) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return loadBytes(ctx, path, data, newLoadConfig(opts))
}

// LoadBytes loads an in-memory XMI document. The name appears in errors
// and as the document's Source.
func LoadBytes(ctx context.Context, name string, data []byte, opts ...LoadOption) (*Document, error) {
	return loadBytes(ctx, name, data, newLoadConfig(opts))
}

// LoadAll loads every document of source in parallel, one goroutine per
// document bounded by the number of CPUs. Documents come back in name
// order. Failures are joined into the returned error and the remaining
// documents are still returned.
func LoadAll(ctx context.Context, source Source, opts ...LoadOption) ([]*Document, error) {
	if source == nil {
		return nil, ErrNoSources
	}
	cfg := newLoadConfig(opts)
	logger := cfg.logger

	names, err := source.ListDocuments()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}

	if logEnabled(logger, slog.LevelInfo) {
		logger.LogAttrs(ctx, slog.LevelInfo, "parallel loading",
			slog.Int("documents", len(names)))
	}

	heuristic := defaultHeuristic()
	if cfg.noHeuristic {
		heuristic.enabled = false
	}

	docs := make([]*Document, len(names))
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())

	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			data, path, err := readDocument(source, name)
			if err != nil {
				errs[i] = err
				return
			}
			if !heuristic.looksLikeXMI(data) {
				if logEnabled(logger, slog.LevelDebug) {
					logger.LogAttrs(ctx, slog.LevelDebug, "content rejected by heuristic",
						slog.String("path", path))
				}
				return
			}
			docs[i], errs[i] = loadBytes(ctx, path, data, cfg)
		}()
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	out := make([]*Document, 0, len(docs))
	for _, doc := range docs {
		if doc != nil {
			out = append(out, doc)
		}
	}

	if logEnabled(logger, slog.LevelInfo) {
		logger.LogAttrs(ctx, slog.LevelInfo, "parallel loading complete",
			slog.Int("documents", len(out)))
	}
	return out, errors.Join(errs...)
}

func loadNamed(ctx context.Context, source Source, name string, cfg loadConfig) (*Document, error) {
	data, path, err := readDocument(source, name)
	if err != nil {
		return nil, err
	}
	return loadBytes(ctx, path, data, cfg)
}

func readDocument(source Source, name string) ([]byte, string, error) {
	r, path, err := source.Find(name)
	if err != nil {
		return nil, path, fmt.Errorf("find %s: %w", name, err)
	}
	defer func() { _ = r.Close() }()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, path, fmt.Errorf("read %s: %w", path, err)
	}
	return data, path, nil
}

// loadBytes parses and resolves one document. Errors carry the name.
func loadBytes(ctx context.Context, name string, data []byte, cfg loadConfig) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := cfg.logger

	if logEnabled(logger, slog.LevelDebug) {
		logger.LogAttrs(ctx, slog.LevelDebug, "parsing document",
			slog.String("source", name),
			slog.Int("bytes", len(data)))
	}

	tree, err := dom.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	doc, err := resolver.Resolve(tree.Root(), resolver.Options{
		Dialect: cfg.dialect,
		Logger:  types.Component(logger, "resolver"),
		Config:  cfg.diagConfig,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	doc.Source = name

	if tree.CharsetFallback {
		report(&doc.Diagnostics, cfg.diagConfig, types.DiagCharsetFallback, uml.SeverityWarning, "",
			fmt.Sprintf("unknown charset %q; reading input as UTF-8", tree.Charset))
	}

	for _, d := range doc.Diagnostics {
		if cfg.diagConfig.ShouldFail(d.Severity) {
			return doc, fmt.Errorf("%s: %w: %s", name, ErrDiagnostics, d)
		}
	}
	return doc, nil
}

// report appends a loader-level diagnostic subject to the same filtering
// the resolver applies.
func report(diags *[]uml.Diagnostic, cfg uml.DiagnosticConfig, code string, sev uml.Severity, xmiID, msg string) {
	if !cfg.ShouldReport(code, sev) {
		return
	}
	*diags = append(*diags, uml.Diagnostic{
		Severity: cfg.Severity(code, sev),
		Code:     code,
		Message:  msg,
		XMIID:    xmiID,
	})
}

type heuristicConfig struct {
	enabled         bool
	binaryCheckSize int
	maxProbeSize    int
}

func defaultHeuristic() heuristicConfig {
	return heuristicConfig{
		enabled:         true,
		binaryCheckSize: 1024,
		maxProbeSize:    16 * 1024,
	}
}

var (
	sigXMI   = []byte("XMI")
	sigModel = []byte("Model")
)

// looksLikeXMI rejects binary content and XML that never mentions an XMI
// wrapper or a UML model near the top of the file.
func (h *heuristicConfig) looksLikeXMI(content []byte) bool {
	if !h.enabled {
		return true
	}
	if len(content) == 0 {
		return false
	}

	checkLen := min(h.binaryCheckSize, len(content))
	if bytes.IndexByte(content[:checkLen], 0) >= 0 {
		return false
	}

	probe := content[:min(h.maxProbeSize, len(content))]
	return bytes.Contains(probe, sigXMI) || bytes.Contains(probe, sigModel)
}
