// Package site serves the pre-built front-end from a directory on disk.
package site

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Error constants
var (
	ErrNoIndex = errors.New("site directory has no index.html")
)

const indexFile = "index.html"

// Register attaches the site to the root of mux. Paths that do not name a
// file fall back to index.html so client-side routes resolve.
func Register(_ context.Context, mux *http.ServeMux, dir string) error {
	if mux == nil {
		panic("mux is nil")
	}
	h, err := NewHandler(dir)
	if err != nil {
		return err
	}
	mux.Handle("/", h)
	return nil
}

// Handler serves files from a directory with an index.html fallback.
type Handler struct {
	dir   string
	files http.Handler
}

// NewHandler checks dir for an index.html and returns a Handler over it.
func NewHandler(dir string) (*Handler, error) {
	info, err := os.Stat(filepath.Join(dir, indexFile))
	if err != nil || info.IsDir() {
		return nil, errors.Join(ErrNoIndex, err)
	}
	return &Handler{dir: dir, files: http.FileServer(http.Dir(dir))}, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	name := path.Clean("/" + r.URL.Path)
	if name != "/" && !h.servable(name) {
		// Missing assets stay 404; anything else is a client-side route.
		if path.Ext(name) != "" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(h.dir, indexFile))
		return
	}
	h.files.ServeHTTP(w, r)
}

// servable reports whether name is a file, or a directory with its own
// index.html. Other directories are never listed.
func (h *Handler) servable(name string) bool {
	info, ok := h.stat(name)
	if !ok {
		return false
	}
	if !info.IsDir() {
		return true
	}
	index, ok := h.stat(path.Join(name, indexFile))
	return ok && !index.IsDir()
}

func (h *Handler) stat(name string) (fs.FileInfo, bool) {
	f, err := http.Dir(h.dir).Open(strings.TrimPrefix(name, "/"))
	if err != nil {
		return nil, false
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		return nil, false
	}
	return info, true
}
