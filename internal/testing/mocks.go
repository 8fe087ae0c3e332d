package testing

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Alia5/bindgen/internal/codegen/catalogue"
)

// BindingCall records one GenerateBindings invocation.
type BindingCall struct {
	SourceRoot string
	Bindings   []catalogue.Binding
}

// FakeBindingGenerator records calls and returns Err.
type FakeBindingGenerator struct {
	mu    sync.Mutex
	Calls []BindingCall
	Err   error
}

func (f *FakeBindingGenerator) GenerateBindings(sourceRoot string, bindings []catalogue.Binding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, BindingCall{SourceRoot: sourceRoot, Bindings: append([]catalogue.Binding(nil), bindings...)})
	return f.Err
}

// CompileCall records one Compile invocation.
type CompileCall struct {
	Input       string
	IncludeDirs []string
	OutDir      string
}

// FakeSchemaCompiler records calls. Inputs whose base name (without
// extension) is a key of Fail return that error. Successful compilations
// write "<name>.rs" into the output directory, as a real compiler would.
type FakeSchemaCompiler struct {
	mu    sync.Mutex
	Calls []CompileCall
	Fail  map[string]error
}

func (f *FakeSchemaCompiler) Compile(input string, includeDirs []string, outDir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, CompileCall{Input: input, IncludeDirs: append([]string(nil), includeDirs...), OutDir: outDir})

	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if err, ok := f.Fail[name]; ok {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, name+".rs"), []byte("// generated from "+input+"\n"), 0o644)
}

// Inputs returns the compiled inputs in call order.
func (f *FakeSchemaCompiler) Inputs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.Input
	}
	return out
}
