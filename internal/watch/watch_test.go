package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "model.xmi")
	w, err := New([]string{watched})
	require.NoError(t, err)
	defer w.Close()

	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{"write", watched, fsnotify.Write, true},
		{"create", watched, fsnotify.Create, true},
		{"write and chmod", watched, fsnotify.Write | fsnotify.Chmod, true},
		{"remove", watched, fsnotify.Remove, false},
		{"rename", watched, fsnotify.Rename, false},
		{"chmod", watched, fsnotify.Chmod, false},
		{"other file", filepath.Join(dir, "other.xmi"), fsnotify.Write, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := w.relevant(fsnotify.Event{Name: tt.path, Op: tt.op})
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Equal(t, watched, path)
			}
		})
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "absent", "model.xmi")})
	assert.Error(t, err)
}

func TestRunReportsWrites(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "model.xmi")
	require.NoError(t, os.WriteFile(watched, []byte("v1"), 0o644))

	w, err := New([]string{watched}, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []string
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(path string) {
			mu.Lock()
			got = append(got, path)
			mu.Unlock()
		})
	}()

	// Unwatched neighbours are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.xmi"), []byte("x"), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(watched, []byte("v2"), 0o644))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	for _, p := range got {
		assert.Equal(t, watched, p)
	}
	mu.Unlock()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
