package static_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frobnicators/tweaklib/static"
)

func TestEmbeddedIndex(t *testing.T) {
	tbl := static.New("")
	f, ok := tbl.Lookup("/")
	require.True(t, ok)
	assert.Equal(t, "index.html", f.Name)
	assert.Equal(t, "text/html; charset=utf-8", f.ContentType)
	assert.Contains(t, string(f.Data), "/app.js")

	js, ok := tbl.Lookup("/app.js?cache=1")
	require.True(t, ok)
	assert.Equal(t, "application/javascript", js.ContentType)
	assert.Contains(t, string(js.Data), "v1.tweaklib.sidvind.com")
}

func TestUnknownPath(t *testing.T) {
	tbl := static.New("")
	for _, p := range []string{"/missing", "/../go.mod", "", "/assets/index.html"} {
		_, ok := tbl.Lookup(p)
		assert.False(t, ok, p)
	}
}

func TestOverrideDirWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.txt"), []byte("nope"), 0o644))

	tbl := static.New(dir)
	f, ok := tbl.Lookup("/style.css")
	require.True(t, ok)
	assert.Equal(t, "body{}", string(f.Data))
	assert.Equal(t, "text/css", f.ContentType)

	_, ok = tbl.Lookup("/extra.txt")
	assert.False(t, ok, "override directory cannot add files")

	idx, ok := tbl.Lookup("/")
	require.True(t, ok)
	assert.Contains(t, string(idx.Data), "<html>")
}

func TestNewFromFS(t *testing.T) {
	tbl := static.NewFromFS(fstest.MapFS{
		"a/b.json": {Data: []byte("{}")},
	}, "")
	f, ok := tbl.Lookup("/a/b.json")
	require.True(t, ok)
	assert.Equal(t, "application/json", f.ContentType)

	_, ok = tbl.Lookup("/")
	assert.False(t, ok, "no index without index.html")
	assert.ElementsMatch(t, []string{"/a/b.json"}, tbl.Paths())
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/plain", static.ContentType("README"))
	assert.Equal(t, "text/html; charset=utf-8", static.ContentType("X.HTML"))
}
