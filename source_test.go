package goxmi

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/umlkit/goxmi/internal/testutil"
)

func TestDirNonExistentPath(t *testing.T) {
	_, err := Dir("/this/path/does/not/exist/at/all")
	testutil.Error(t, err, "Dir with non-existent path should fail")
}

func TestDirNotADirectory(t *testing.T) {
	_, err := Dir("testdata/legacy.xmi")
	testutil.Error(t, err, "Dir with a file path should fail")
}

func TestMustDirPanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustDir with non-existent path should panic")
		}
	}()
	MustDir("/this/path/does/not/exist")
}

func TestDirListDocuments(t *testing.T) {
	names, err := MustDir("testdata").ListDocuments()
	testutil.NoError(t, err, "ListDocuments")
	testutil.SliceEqual(t, []string{"legacy", "windows1252", "xmi2013"}, names)
}

func TestDirFind(t *testing.T) {
	r, path, err := MustDir("testdata").Find("legacy")
	testutil.NoError(t, err, "Find legacy")
	defer func() { _ = r.Close() }()
	testutil.Equal(t, filepath.Join("testdata", "legacy.xmi"), path)

	_, _, err = MustDir("testdata").Find("missing")
	testutil.True(t, err == fs.ErrNotExist, "error should be fs.ErrNotExist")
}

func TestDirTreeNotADirectory(t *testing.T) {
	_, err := DirTree("testdata/legacy.xmi")
	testutil.Error(t, err, "DirTree with a file path should fail")
}

func TestDirTreeFirstMatchWins(t *testing.T) {
	root := t.TempDir()
	testutil.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0o755))
	testutil.NoError(t, os.MkdirAll(filepath.Join(root, "b"), 0o755))
	testutil.NoError(t, os.WriteFile(filepath.Join(root, "a", "model.xmi"), []byte("first"), 0o644))
	testutil.NoError(t, os.WriteFile(filepath.Join(root, "b", "model.xml"), []byte("second"), 0o644))
	testutil.NoError(t, os.WriteFile(filepath.Join(root, "b", "readme.txt"), []byte("skip"), 0o644))

	src := MustDirTree(root)
	names, err := src.ListDocuments()
	testutil.NoError(t, err)
	testutil.SliceEqual(t, []string{"model"}, names)

	r, path, err := src.Find("model")
	testutil.NoError(t, err)
	defer func() { _ = r.Close() }()
	data, err := io.ReadAll(r)
	testutil.NoError(t, err)
	testutil.Equal(t, "first", string(data))
	testutil.Contains(t, path, filepath.Join("a", "model.xmi"))
}

func TestFileSource(t *testing.T) {
	src, err := File("testdata/xmi2013.xmi")
	testutil.NoError(t, err)

	names, err := src.ListDocuments()
	testutil.NoError(t, err)
	testutil.SliceEqual(t, []string{"xmi2013"}, names)

	r, path, err := src.Find("xmi2013")
	testutil.NoError(t, err)
	_ = r.Close()
	testutil.Equal(t, "testdata/xmi2013.xmi", path)

	_, err = File("testdata")
	testutil.Error(t, err, "File with a directory should fail")
}

func TestBytesSource(t *testing.T) {
	src := Bytes("inline", []byte("<x/>"))

	r, path, err := src.Find("inline")
	testutil.NoError(t, err)
	data, _ := io.ReadAll(r)
	testutil.Equal(t, "<x/>", string(data))
	testutil.Equal(t, "inline", path)

	_, _, err = src.Find("other")
	testutil.True(t, err == fs.ErrNotExist)
}

func TestFSSource(t *testing.T) {
	src := FS("mem", fstest.MapFS{
		"models/shop.xmi":  {Data: []byte("<xmi:XMI/>")},
		"models/notes.txt": {Data: []byte("no")},
	})

	names, err := src.ListDocuments()
	testutil.NoError(t, err)
	testutil.SliceEqual(t, []string{"shop"}, names)

	r, path, err := src.Find("shop")
	testutil.NoError(t, err)
	_ = r.Close()
	testutil.Equal(t, "mem:models/shop.xmi", path)

	_, _, err = src.Find("notes")
	testutil.True(t, err == fs.ErrNotExist, "unlisted extensions are not found")
}

func TestMultiSource(t *testing.T) {
	first := Bytes("shared", []byte("one"))
	second := Multi(Bytes("shared", []byte("two")), Bytes("extra", []byte("three")))
	multi := Multi(first, second)

	names, err := multi.ListDocuments()
	testutil.NoError(t, err)
	testutil.SliceEqual(t, []string{"extra", "shared"}, names)

	r, _, err := multi.Find("shared")
	testutil.NoError(t, err)
	data, _ := io.ReadAll(r)
	testutil.Equal(t, "one", string(data), "first source wins")

	_, _, err = multi.Find("nothing")
	testutil.True(t, err == fs.ErrNotExist)
}

func TestWithExtensions(t *testing.T) {
	dir := t.TempDir()
	testutil.NoError(t, os.WriteFile(filepath.Join(dir, "model.uml"), []byte("x"), 0o644))
	testutil.NoError(t, os.WriteFile(filepath.Join(dir, "other.xmi"), []byte("x"), 0o644))

	names, err := MustDir(dir, WithExtensions(".uml")).ListDocuments()
	testutil.NoError(t, err)
	testutil.SliceEqual(t, []string{"model"}, names)

	names, err = MustDir(dir).ListDocuments()
	testutil.NoError(t, err)
	testutil.SliceEqual(t, []string{"other"}, names)
}

func TestDocumentName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"model.xmi", "model"},
		{"dir/sub/Model.XML", "Model"},
		{"noext", "noext"},
		{"archive.v2.xmi", "archive.v2"},
		{"/tmp/model.v2.xml", "model.v2"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			testutil.Equal(t, tt.want, DocumentName(tt.path))
		})
	}
}

func TestListDocumentsDedupesNames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zoo.xml", "zoo.xmi", "Alpha.XMI", "beta.xmi"} {
		testutil.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}

	names, err := MustDir(dir).ListDocuments()
	testutil.NoError(t, err)
	testutil.SliceEqual(t, []string{"Alpha", "beta", "zoo"}, names)

	r, path, err := MustDir(dir).Find("zoo")
	testutil.NoError(t, err)
	_ = r.Close()
	testutil.Equal(t, filepath.Join(dir, "zoo.xmi"), path, "extensions are tried in order")

	fsNames, err := FS("mem", fstest.MapFS{
		"b/dup.xmi": {Data: []byte("second")},
		"a/dup.xml": {Data: []byte("first")},
		"c.xmi":     {Data: []byte("c")},
	}).ListDocuments()
	testutil.NoError(t, err)
	testutil.SliceEqual(t, []string{"c", "dup"}, fsNames)
}

func TestDocumentIndexFirstWins(t *testing.T) {
	ix := make(documentIndex)
	testutil.True(t, ix.add("m", "one"))
	testutil.False(t, ix.add("m", "two"))
	testutil.True(t, ix.add("a", "three"))
	testutil.Equal(t, "one", ix["m"])
	testutil.SliceEqual(t, []string{"a", "m"}, ix.names())
}
