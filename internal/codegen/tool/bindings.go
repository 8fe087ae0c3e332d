package tool

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/Alia5/bindgen/internal/codegen/catalogue"
)

// Manifest is the document handed to the binding generator. The generator
// owns the layout below OutDir: one file per binding module plus a shared
// support file.
type Manifest struct {
	SourceRoot string              `json:"sourceRoot"`
	OutDir     string              `json:"outDir"`
	Bindings   []catalogue.Binding `json:"bindings"`
}

// ExecBindingGenerator runs an external binding generator as
//
//	<Command> <Args...> --manifest <file>
type ExecBindingGenerator struct {
	Command string
	Args    []string
	OutDir  string
	runner  *Runner
}

func NewExecBindingGenerator(runner *Runner, command string, args []string, outDir string) *ExecBindingGenerator {
	return &ExecBindingGenerator{Command: command, Args: args, OutDir: outDir, runner: runner}
}

func (g *ExecBindingGenerator) GenerateBindings(sourceRoot string, bindings []catalogue.Binding) error {
	f, err := os.CreateTemp("", "bindgen-manifest-*.json")
	if err != nil {
		return fmt.Errorf("create binding manifest: %w", err)
	}
	defer func() { _ = os.Remove(f.Name()) }()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Manifest{SourceRoot: sourceRoot, OutDir: g.OutDir, Bindings: bindings}); err != nil {
		_ = f.Close()
		return fmt.Errorf("write binding manifest: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write binding manifest: %w", err)
	}

	args := append(slices.Clone(g.Args), "--manifest", f.Name())
	return g.runner.Run(g.Command, args...)
}
