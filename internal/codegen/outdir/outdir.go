// Package outdir manages the directory that receives compiled schema code
// and the module index written into it.
package outdir

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Mode decides whether existing schema output is regenerated or reused.
type Mode int

const (
	// Regenerate always wipes and rebuilds the output directory.
	Regenerate Mode = iota
	// ReusePrebuilt keeps an existing output directory untouched. Used when
	// the schema code was produced by a separate packaging step.
	ReusePrebuilt
)

// PrebuiltSentinel is the only environment value that selects ReusePrebuilt.
const PrebuiltSentinel = "1"

// ModeFromEnv maps the raw value of the gate environment variable to a Mode.
// Anything except the exact sentinel, including an unset variable, means
// Regenerate.
func ModeFromEnv(value string) Mode {
	if value == PrebuiltSentinel {
		return ReusePrebuilt
	}
	return Regenerate
}

func (m Mode) String() string {
	switch m {
	case Regenerate:
		return "regenerate"
	case ReusePrebuilt:
		return "reuse-prebuilt"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Dir is the schema output directory.
type Dir struct {
	path  string
	index string
	decl  *declTemplate
}

// New describes the output directory at path. indexName is the module index
// file name inside it and declTemplate the text/template producing one
// declaration line per module.
func New(path, indexName, declTemplate string) (*Dir, error) {
	if path == "" {
		return nil, errors.New("output directory not set")
	}
	if clean := filepath.Clean(path); clean == "." || filepath.Dir(clean) == clean {
		return nil, fmt.Errorf("refusing to use %q as output directory", path)
	}
	if indexName == "" || filepath.Base(indexName) != indexName {
		return nil, fmt.Errorf("invalid index file name %q", indexName)
	}
	decl, err := parseDeclTemplate(declTemplate)
	if err != nil {
		return nil, err
	}
	return &Dir{path: path, index: indexName, decl: decl}, nil
}

func (d *Dir) Path() string { return d.path }

// Covers reports whether dir is the output directory or lies inside it, that
// is whether Reset would delete it.
func (d *Dir) Covers(dir string) bool {
	out, err := filepath.Abs(d.path)
	if err != nil {
		return true
	}
	target, err := filepath.Abs(dir)
	if err != nil {
		return true
	}
	rel, err := filepath.Rel(out, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// IndexPath is the location of the module index file.
func (d *Dir) IndexPath() string { return filepath.Join(d.path, d.index) }

// Skip reports whether schema generation must be skipped: only when mode is
// ReusePrebuilt and the output directory already exists. It never modifies
// the filesystem.
func (d *Dir) Skip(mode Mode) (bool, error) {
	if mode != ReusePrebuilt {
		return false, nil
	}
	info, err := os.Stat(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat output directory: %w", err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("output path %s is not a directory", d.path)
	}
	return true, nil
}

// Reset deletes the output directory recursively, recreates it empty and
// creates a fresh module index inside it.
func (d *Dir) Reset() (*Index, error) {
	if err := os.RemoveAll(d.path); err != nil {
		return nil, fmt.Errorf("remove output directory %s: %w", d.path, err)
	}
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", d.path, err)
	}
	f, err := os.OpenFile(d.IndexPath(), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create module index: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("create module index: %w", err)
	}
	return &Index{path: d.IndexPath(), decl: d.decl}, nil
}
