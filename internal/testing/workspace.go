package testing

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/Alia5/bindgen/internal/codegen/catalogue"
)

// Workspace is a throwaway source tree and output location for a test.
type Workspace struct {
	Root   string
	OutDir string
}

// NewWorkspace creates every document referenced by cat below a fresh
// source root. The output directory is not created.
func NewWorkspace(t *testing.T, cat *catalogue.Catalogue) *Workspace {
	t.Helper()
	base := t.TempDir()
	ws := &Workspace{
		Root:   filepath.Join(base, "src"),
		OutDir: filepath.Join(base, "out", "protos"),
	}
	for _, rel := range cat.Sources() {
		p := filepath.Join(ws.Root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("create source dir: %v", err)
		}
		if err := os.WriteFile(p, []byte("// "+rel+"\n"), 0o644); err != nil {
			t.Fatalf("write source document: %v", err)
		}
	}
	return ws
}

// ProtoCatalogue builds a catalogue with one schema entry per name, each at
// "protos/<name>.proto".
func ProtoCatalogue(names ...string) *catalogue.Catalogue {
	c := &catalogue.Catalogue{
		Bindings: []catalogue.Binding{
			{Module: "org_example_service", Source: "service/org.example.Service.xml", Mode: catalogue.ClientMode()},
		},
	}
	for _, n := range names {
		c.Protos = append(c.Protos, catalogue.Proto{Module: n, Source: "protos/" + n + ".proto"})
	}
	return c
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Snapshot lists every path below dir with its size and modification time,
// used to assert that an operation left a tree untouched.
func Snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		out[p] = info.ModTime().String() + "/" + info.Mode().String() + "/" + strconv.FormatInt(info.Size(), 10)
		return nil
	})
	if err != nil {
		t.Fatalf("snapshot %s: %v", dir, err)
	}
	return out
}
