// Package resolver assembles a UML document graph from a parsed XMI tree.
//
// Relationships in an XMI export are not nested where they apply. The
// model subtree holds packages, classes and owned attributes; the tool
// extension holds element records with their links and, separately,
// connector records with multiplicities and role names. All of them are
// joined only by identifier strings. The resolver indexes the tree once
// and then walks the package hierarchy, joining those sections through a
// dialect adapter.
//
// # Resolution Phases
//
//  1. Dialect: detect or force the export generation and index its extension
//  2. Model: locate uml:Model and check it has packaged elements
//  3. Index: map every identifier to its name, and owned association ends
//  4. Assemble: build packages, classes, enums, data types and diagrams
//
// # Usage
//
//	doc, err := resolver.Resolve(root, resolver.Options{Logger: logger})
package resolver

import (
	"errors"
	"log/slog"

	"github.com/umlkit/goxmi/internal/dialect"
	"github.com/umlkit/goxmi/internal/dom"
	"github.com/umlkit/goxmi/internal/types"
	"github.com/umlkit/goxmi/uml"
)

var (
	// ErrNoModel is returned when the tree has no uml:Model element.
	ErrNoModel = errors.New("no uml:Model element")
	// ErrNoPackages is returned when the model has no packaged elements.
	ErrNoPackages = errors.New("model has no packaged elements")
)

// Options configures a resolution.
type Options struct {
	// Dialect forces a dialect by name. Empty means detect.
	Dialect string
	// Logger enables logging. Nil disables it with zero overhead.
	Logger *slog.Logger
	// Config filters the diagnostics attached to the document.
	Config uml.DiagnosticConfig
}

// resolver drives the phases for one tree.
type resolver struct {
	types.Logger
}

// Resolve assembles the document for root. Fatal structural problems are
// returned as errors; everything else degrades to omitted fields and
// diagnostics on the returned document.
func Resolve(root dom.Node, opts Options) (*uml.Document, error) {
	r := &resolver{Logger: types.Logger{L: opts.Logger}}
	return r.resolve(root, opts)
}

func (r *resolver) resolve(root dom.Node, opts Options) (*uml.Document, error) {
	ctx := newContext(root, r.L, opts.Config)

	r.Log(slog.LevelDebug, "starting phase", slog.String("phase", "dialect"))
	if err := selectDialect(ctx, opts); err != nil {
		return nil, err
	}
	r.Log(slog.LevelDebug, "phase complete", slog.String("phase", "dialect"),
		slog.String("dialect", ctx.Dialect.Name()))

	r.Log(slog.LevelDebug, "starting phase", slog.String("phase", "model"))
	if err := locateModel(ctx); err != nil {
		return nil, err
	}

	r.Log(slog.LevelDebug, "starting phase", slog.String("phase", "index"))
	ends := buildIndexes(ctx)
	r.Log(slog.LevelDebug, "phase complete", slog.String("phase", "index"),
		slog.Int("ids", ctx.Index.Len()),
		slog.Int("association_ends", ends))

	r.Log(slog.LevelDebug, "starting phase", slog.String("phase", "assemble"))
	doc := ctx.assembleDocument()
	doc.Diagnostics = ctx.Diagnostics()

	if r.Enabled(slog.LevelInfo) {
		s := doc.Stats()
		r.Log(slog.LevelInfo, "resolution complete",
			slog.String("model", doc.Name),
			slog.Int("packages", s.Packages),
			slog.Int("classes", s.Classes),
			slog.Int("associations", s.Associations),
			slog.Int("diagnostics", len(doc.Diagnostics)))
	}
	return doc, nil
}

// selectDialect constructs the forced dialect or detects one.
func selectDialect(ctx *Context, opts Options) error {
	name := opts.Dialect
	if name == "" {
		var ok bool
		name, ok = dialect.Detect(ctx.Root)
		if !ok {
			ctx.Emit(types.DiagDialectGuessed, uml.SeverityInfo, "",
				"export generation not recognized; assuming %s", name)
		}
	}
	d, err := dialect.ByName(name, ctx.Root, dialect.Options{
		Logger: ctx.L,
		Report: ctx.Reporter(),
	})
	if err != nil {
		return err
	}
	ctx.Dialect = d
	return nil
}

func locateModel(ctx *Context) error {
	model, ok := ctx.Dialect.Model(ctx.Root)
	if !ok {
		return ErrNoModel
	}
	if len(ctx.Dialect.PackageChildren(model)) == 0 {
		return ErrNoPackages
	}
	ctx.Model = model
	return nil
}

// buildIndexes builds the identifier index and the owned association end
// lookup. It runs exactly once per resolution.
func buildIndexes(ctx *Context) int {
	ctx.Index = buildIndex(ctx.Root, &ctx.Logger)
	for _, id := range ctx.Index.Duplicates {
		ctx.Emit(types.DiagDuplicateID, uml.SeverityWarning, id,
			"identifier appears on more than one named element; the last one wins")
	}
	return ctx.indexOwnedAttributes()
}
