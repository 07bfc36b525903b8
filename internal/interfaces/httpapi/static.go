package httpapi

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/riskibarqy/fpl-xvalue/internal/usecase"
)

var staticContentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript",
	".json": "application/json",
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".ico":  "image/x-icon",
}

type staticFile struct {
	ContentType string
	Body        []byte
}

// staticFiles serves a fixed set of extensions from one directory. Reads go
// through os.Root so no name can escape the directory.
type staticFiles struct {
	dir string
}

func newStaticFiles(dir string) *staticFiles {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "."
	}
	return &staticFiles{dir: dir}
}

func (s *staticFiles) Read(name string) (staticFile, error) {
	rel := strings.TrimPrefix(name, "/")
	if rel == "" || hasDotDotSegment(rel) {
		return staticFile{}, fmt.Errorf("%w: static file %q", usecase.ErrNotFound, name)
	}

	contentType, ok := staticContentTypes[strings.ToLower(path.Ext(rel))]
	if !ok {
		return staticFile{}, fmt.Errorf("%w: unsupported static file %q", usecase.ErrNotFound, name)
	}

	root, err := os.OpenRoot(s.dir)
	if err != nil {
		return staticFile{}, fmt.Errorf("%w: open static dir: %v", usecase.ErrNotFound, err)
	}
	defer root.Close()

	body, err := root.ReadFile(path.Clean(rel))
	if err != nil {
		return staticFile{}, fmt.Errorf("%w: read static file %q: %v", usecase.ErrNotFound, name, err)
	}

	return staticFile{ContentType: contentType, Body: body}, nil
}

func hasDotDotSegment(p string) bool {
	for _, part := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return true
		}
	}
	return false
}
