// File: static/static.go
// License: Apache-2.0

// Package static serves the bundled web UI. Files are embedded at build
// time; a file with the same name in the override directory wins, which
// allows editing the UI without rebuilding.
package static

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed assets
var assets embed.FS

// File is a resolved static file.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Table maps request paths to static files.
type Table struct {
	files       fs.FS
	names       map[string]string
	overrideDir string
}

// New builds the table of embedded assets. overrideDir may be empty.
func New(overrideDir string) *Table {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return NewFromFS(sub, overrideDir)
}

// NewFromFS builds a table over the regular files of fsys.
func NewFromFS(fsys fs.FS, overrideDir string) *Table {
	t := &Table{
		files:       fsys,
		names:       map[string]string{},
		overrideDir: overrideDir,
	}
	_ = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		t.names["/"+p] = p
		return nil
	})
	if _, ok := t.names["/index.html"]; ok {
		t.names["/"] = "index.html"
	}
	return t
}

// Paths returns the request paths the table answers.
func (t *Table) Paths() []string {
	out := make([]string, 0, len(t.names))
	for p := range t.names {
		out = append(out, p)
	}
	return out
}

// Lookup resolves a request path; a query string is ignored. Only paths in
// the table are served, overrides included.
func (t *Table) Lookup(reqPath string) (*File, bool) {
	if i := strings.IndexByte(reqPath, '?'); i >= 0 {
		reqPath = reqPath[:i]
	}
	name, ok := t.names[reqPath]
	if !ok {
		return nil, false
	}

	if t.overrideDir != "" {
		if data, err := os.ReadFile(filepath.Join(t.overrideDir, filepath.FromSlash(name))); err == nil {
			return &File{Name: name, ContentType: ContentType(name), Data: data}, true
		}
	}
	data, err := fs.ReadFile(t.files, name)
	if err != nil {
		return nil, false
	}
	return &File{Name: name, ContentType: ContentType(name), Data: data}, true
}

// ContentType maps a file name to its MIME type by extension.
func ContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".json":
		return "application/json"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	}
	return "text/plain"
}
