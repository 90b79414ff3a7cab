package goxmi

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// DefaultExtensions are the file extensions recognized as XMI exports.
var DefaultExtensions = []string{".xmi", ".xml"}

// Source finds XMI documents by name.
//
// A document's name is its file name without the extension (see
// DocumentName). When several files share a name, the first one a source
// sees wins and the rest are invisible.
type Source interface {
	// Find locates a document by name.
	// Returns the content, a path for error messages, or fs.ErrNotExist.
	Find(name string) (io.ReadCloser, string, error)

	// ListDocuments returns the names of all documents known to this
	// source, sorted and without duplicates.
	ListDocuments() ([]string, error)
}

// DocumentName returns the document name for a file path: the base name
// with its last extension removed.
func DocumentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// documentIndex maps document names to locations. The first location
// added under a name is kept.
type documentIndex map[string]string

// add records loc under name unless the name is taken.
func (ix documentIndex) add(name, loc string) bool {
	if _, taken := ix[name]; taken {
		return false
	}
	ix[name] = loc
	return true
}

// names returns the indexed names in sorted order.
func (ix documentIndex) names() []string {
	out := make([]string, 0, len(ix))
	for name := range ix {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// extensionSet matches file paths by extension, case-insensitively.
type extensionSet map[string]struct{}

func newExtensionSet(extensions []string) extensionSet {
	set := make(extensionSet, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

func (s extensionSet) matches(path string) bool {
	_, ok := s[strings.ToLower(filepath.Ext(path))]
	return ok
}

// indexFS walks fsys in lexical order and indexes every file with a
// recognized extension. Unreadable directories are skipped. loc maps the
// slash-separated walk path to the location stored in the index.
func indexFS(fsys fs.FS, exts extensionSet, loc func(string) string) (documentIndex, error) {
	ix := make(documentIndex)
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !exts.matches(path) {
			return nil
		}
		ix.add(DocumentName(path), loc(path))
		return nil
	})
	return ix, err
}

// SourceOption configures a source.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	extensions []string
}

func newSourceConfig(opts []SourceOption) sourceConfig {
	cfg := sourceConfig{extensions: DefaultExtensions}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithExtensions sets the file extensions to recognize for this source.
func WithExtensions(exts ...string) SourceOption {
	return func(c *sourceConfig) {
		c.extensions = exts
	}
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
	return nil
}

// single is a source holding exactly one named document.
type single struct {
	name string
	loc  string
	open func() (io.ReadCloser, error)
}

// File creates a Source holding a single file, whatever its extension.
func File(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
	return &single{
		name: DocumentName(path),
		loc:  path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// Bytes creates a Source holding one in-memory document.
func Bytes(name string, data []byte) Source {
	return &single{
		name: name,
		loc:  name,
		open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func (s *single) Find(name string) (io.ReadCloser, string, error) {
	if name != s.name {
		return nil, "", fs.ErrNotExist
	}
	r, err := s.open()
	if err != nil {
		return nil, s.loc, err
	}
	return r, s.loc, nil
}

func (s *single) ListDocuments() ([]string, error) {
	return []string{s.name}, nil
}

// dirSource reads one directory on every call, without recursion.
type dirSource struct {
	path string
	exts []string
}

// Dir creates a Source that searches a single directory (no recursion).
// Files are looked up on each Find call, trying extensions in order.
func Dir(path string, opts ...SourceOption) (Source, error) {
	if err := requireDir(path); err != nil {
		return nil, err
	}
	return &dirSource{path: path, exts: newSourceConfig(opts).extensions}, nil
}

// MustDir is like Dir but panics on error.
func MustDir(path string, opts ...SourceOption) Source {
	src, err := Dir(path, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

func (s *dirSource) Find(name string) (io.ReadCloser, string, error) {
	for _, ext := range s.exts {
		path := filepath.Join(s.path, name+ext)
		f, err := os.Open(path)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, path, err
		}
	}
	return nil, "", fs.ErrNotExist
}

func (s *dirSource) ListDocuments() ([]string, error) {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, err
	}
	exts := newExtensionSet(s.exts)
	ix := make(documentIndex)
	for _, entry := range entries {
		if !entry.IsDir() && exts.matches(entry.Name()) {
			ix.add(DocumentName(entry.Name()), entry.Name())
		}
	}
	return ix.names(), nil
}

// indexedSource serves documents from a prebuilt name index. The index
// is built on first use.
type indexedSource struct {
	build func() (documentIndex, error)
	open  func(loc string) (io.ReadCloser, error)
	label func(loc string) string

	once  sync.Once
	index documentIndex
	err   error
}

func (s *indexedSource) load() (documentIndex, error) {
	s.once.Do(func() {
		s.index, s.err = s.build()
	})
	return s.index, s.err
}

func (s *indexedSource) Find(name string) (io.ReadCloser, string, error) {
	ix, err := s.load()
	if err != nil {
		return nil, "", err
	}
	loc, ok := ix[name]
	if !ok {
		return nil, "", fs.ErrNotExist
	}
	r, err := s.open(loc)
	if err != nil {
		return nil, s.label(loc), err
	}
	return r, s.label(loc), nil
}

func (s *indexedSource) ListDocuments() ([]string, error) {
	ix, err := s.load()
	if err != nil {
		return nil, err
	}
	return ix.names(), nil
}

// DirTree creates a Source that recursively indexes a directory tree.
// The tree is walked once, at construction, in lexical order.
func DirTree(root string, opts ...SourceOption) (Source, error) {
	if err := requireDir(root); err != nil {
		return nil, err
	}
	exts := newExtensionSet(newSourceConfig(opts).extensions)
	ix, err := indexFS(os.DirFS(root), exts, func(p string) string {
		return filepath.Join(root, filepath.FromSlash(p))
	})
	if err != nil {
		return nil, err
	}
	src := &indexedSource{
		open:  func(loc string) (io.ReadCloser, error) { return os.Open(loc) },
		label: func(loc string) string { return loc },
	}
	src.once.Do(func() { src.index = ix })
	return src, nil
}

// MustDirTree is like DirTree but panics on error.
func MustDirTree(root string, opts ...SourceOption) Source {
	src, err := DirTree(root, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

// FS creates a Source backed by an fs.FS such as an embed.FS. The name
// prefixes reported paths. The filesystem is indexed on first use.
func FS(name string, fsys fs.FS, opts ...SourceOption) Source {
	exts := newExtensionSet(newSourceConfig(opts).extensions)
	return &indexedSource{
		build: func() (documentIndex, error) {
			return indexFS(fsys, exts, func(p string) string { return p })
		},
		open:  func(loc string) (io.ReadCloser, error) { return fsys.Open(loc) },
		label: func(loc string) string { return name + ":" + loc },
	}
}

// multiSource layers sources; earlier sources shadow later ones.
type multiSource []Source

// Multi combines multiple sources into one. Find tries each source in
// order and returns the first match.
func Multi(sources ...Source) Source {
	return multiSource(sources)
}

func (m multiSource) Find(name string) (io.ReadCloser, string, error) {
	for _, src := range m {
		r, path, err := src.Find(name)
		if err == nil {
			return r, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, path, err
		}
	}
	return nil, "", fs.ErrNotExist
}

func (m multiSource) ListDocuments() ([]string, error) {
	ix := make(documentIndex)
	for _, src := range m {
		names, err := src.ListDocuments()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			ix.add(name, "")
		}
	}
	return ix.names(), nil
}
