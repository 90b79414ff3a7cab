// Package watch reports changes to a fixed set of files.
//
// Editors rarely write a file in place; many save to a temporary file and
// rename it over the original. Watching the parent directory instead of
// the file itself keeps the watch alive across such renames.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/umlkit/goxmi/internal/types"
)

// DefaultDebounce is how long a file must stay quiet before it is reported.
const DefaultDebounce = 200 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger for watch events.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) { w.L = types.Component(logger, "watch") }
}

// WithDebounce sets the quiet period. Zero reports every event at once.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// Watcher watches files through their parent directories.
type Watcher struct {
	types.Logger
	fsw      *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
}

// New watches paths. Each path must name a file in an existing directory;
// the file itself may not exist yet.
func New(paths []string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool, len(paths)),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		w.Log(slog.LevelDebug, "watching directory", slog.String("dir", dir))
	}
	return w, nil
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run calls fn with the absolute path of each watched file that changed,
// once per quiet period, until ctx is canceled. Paths changed together are
// reported in sorted order. Run returns nil when ctx is canceled.
func (w *Watcher) Run(ctx context.Context, fn func(path string)) error {
	pending := make(map[string]bool)
	var quiet <-chan time.Time

	flush := func() {
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		slices.Sort(paths)
		clear(pending)
		for _, p := range paths {
			w.Log(slog.LevelDebug, "file changed", slog.String("path", p))
			fn(p)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			path, relevant := w.relevant(ev)
			if !relevant {
				continue
			}
			pending[path] = true
			if w.debounce <= 0 {
				flush()
				continue
			}
			quiet = time.After(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		case <-quiet:
			quiet = nil
			flush()
		}
	}
}

// relevant reports whether ev changes the content of a watched file.
// Removals and renames away are ignored; the replacement shows up as a
// create.
func (w *Watcher) relevant(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return "", false
	}
	path, err := filepath.Abs(ev.Name)
	if err != nil || !w.files[path] {
		return "", false
	}
	w.Trace("event", slog.String("path", path), slog.String("op", ev.Op.String()))
	return path, true
}
