// Package generator runs the two generation stages in order: interface
// bindings for the whole catalogue, then schema compilation into the managed
// output directory together with the module index.
package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Alia5/bindgen/internal/codegen/catalogue"
	"github.com/Alia5/bindgen/internal/codegen/outdir"
	"github.com/Alia5/bindgen/internal/codegen/resolve"
	"github.com/Alia5/bindgen/internal/codegen/tool"
	"github.com/Alia5/bindgen/internal/telemetry"
)

const (
	StageValidate = "validate"
	StageBindings = "bindings"
	StageSchemas  = "schemas"
)

// StageError identifies the stage a run failed in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + " stage: " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// Config wires a Generator. Catalogue, Output, Bindings and Compiler are
// required; Metrics may be nil.
type Config struct {
	Catalogue *catalogue.Catalogue
	Resolver  resolve.Resolver
	Output    *outdir.Dir
	Bindings  tool.BindingGenerator
	Compiler  tool.SchemaCompiler
	// Mode comes from the skip-regeneration environment and is fixed for the
	// lifetime of the Generator.
	Mode    outdir.Mode
	Metrics *telemetry.Metrics
}

type Generator struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Generator, error) {
	switch {
	case cfg.Catalogue == nil:
		return nil, errors.New("generator: no catalogue")
	case cfg.Output == nil:
		return nil, errors.New("generator: no output directory")
	case cfg.Bindings == nil:
		return nil, errors.New("generator: no binding generator")
	case cfg.Compiler == nil:
		return nil, errors.New("generator: no schema compiler")
	}
	if cfg.Output.Covers(cfg.Resolver.Root) {
		return nil, fmt.Errorf("generator: output directory %s would delete the source root %s", cfg.Output.Path(), cfg.Resolver.Root)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{cfg: cfg, logger: logger}, nil
}

// Result summarizes a successful run.
type Result struct {
	Bindings int
	Schemas  int
	// SchemasSkipped is set when prebuilt schema output was reused.
	SchemasSkipped bool
}

// Run validates the catalogue, generates bindings and then schemas. The
// first failure aborts the run; the schema stage is not entered when the
// binding stage fails.
func (g *Generator) Run() (Result, error) {
	logger := g.logger.With("run", uuid.NewString())
	start := time.Now()
	g.cfg.Metrics.RunStarted(start)

	var res Result
	if err := g.cfg.Catalogue.Validate(); err != nil {
		g.cfg.Metrics.StageFailed(StageValidate)
		return res, &StageError{Stage: StageValidate, Err: err}
	}

	if err := g.stage(logger, StageBindings, func(l *slog.Logger) error {
		n, err := g.generateBindings(l)
		res.Bindings = n
		return err
	}); err != nil {
		return res, err
	}

	if err := g.stage(logger, StageSchemas, func(l *slog.Logger) error {
		n, skipped, err := g.generateSchemas(l)
		res.Schemas, res.SchemasSkipped = n, skipped
		return err
	}); err != nil {
		return res, err
	}

	logger.Debug("Code generation complete",
		"bindings", res.Bindings,
		"schemas", res.Schemas,
		"schemasSkipped", res.SchemasSkipped,
		"elapsed", time.Since(start))
	return res, nil
}

func (g *Generator) stage(logger *slog.Logger, name string, fn func(*slog.Logger) error) error {
	l := logger.With("stage", name)
	start := time.Now()
	err := fn(l)
	g.cfg.Metrics.StageDuration(name, time.Since(start))
	if err != nil {
		g.cfg.Metrics.StageFailed(name)
		l.Error("Generation stage failed", "error", err)
		return &StageError{Stage: name, Err: err}
	}
	return nil
}

// GenerateBindings runs the binding stage on its own.
func (g *Generator) GenerateBindings() error {
	_, err := g.generateBindings(g.logger)
	return err
}

// GenerateSchemas runs the schema stage on its own.
func (g *Generator) GenerateSchemas() error {
	_, _, err := g.generateSchemas(g.logger)
	return err
}

func (g *Generator) generateBindings(logger *slog.Logger) (int, error) {
	bindings := g.cfg.Catalogue.Bindings
	logger.Debug("Generating interface bindings", "count", len(bindings), "root", g.cfg.Resolver.Root)
	for _, b := range bindings {
		logger.Debug("Binding target", "module", b.Module, "source", b.Source, "mode", b.Mode.String())
	}

	if err := g.cfg.Bindings.GenerateBindings(g.cfg.Resolver.Root, bindings); err != nil {
		return 0, fmt.Errorf("generate bindings: %w", err)
	}
	g.cfg.Metrics.ModulesGenerated(StageBindings, len(bindings))
	return len(bindings), nil
}

// generateSchemas compiles every schema entry in catalogue order and declares
// each compiled module in the index right after it compiles. A failing entry
// stops the loop; index lines already written are left in place.
func (g *Generator) generateSchemas(logger *slog.Logger) (int, bool, error) {
	out := g.cfg.Output

	skip, err := out.Skip(g.cfg.Mode)
	if err != nil {
		return 0, false, err
	}
	if skip {
		logger.Debug("Reusing prebuilt schema output", "dir", out.Path(), "mode", g.cfg.Mode.String())
		g.cfg.Metrics.SchemaSkipped()
		return 0, true, nil
	}

	logger.Debug("Regenerating schema output", "dir", out.Path())
	index, err := out.Reset()
	if err != nil {
		return 0, false, err
	}

	compiled := 0
	for _, p := range g.cfg.Catalogue.Protos {
		input := g.cfg.Resolver.Path(p.Source)
		includes := g.cfg.Resolver.IncludeDirs(p.Source)
		logger.Debug("Compiling schema", "module", p.Module, "input", input, "includes", includes)

		if err := g.cfg.Compiler.Compile(input, includes, out.Path()); err != nil {
			return compiled, false, fmt.Errorf("compile %s (%s): %w", p.Module, p.Source, err)
		}
		if err := index.Declare(outdir.Declaration{Name: p.Module, Source: p.Source}); err != nil {
			return compiled, false, fmt.Errorf("declare %s: %w", p.Module, err)
		}
		compiled++
		g.cfg.Metrics.ModulesGenerated(StageSchemas, 1)
	}

	logger.Debug("Wrote module index", "path", index.Path(), "modules", compiled)
	return compiled, false, nil
}
