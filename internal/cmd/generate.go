package cmd

import (
	"fmt"
	"log/slog"

	"github.com/Alia5/bindgen/internal/codegen/catalogue"
	"github.com/Alia5/bindgen/internal/codegen/generator"
	"github.com/Alia5/bindgen/internal/codegen/outdir"
	"github.com/Alia5/bindgen/internal/codegen/resolve"
	"github.com/Alia5/bindgen/internal/codegen/tool"
	"github.com/Alia5/bindgen/internal/telemetry"
)

type Generate struct {
	Catalogue       string   `help:"Catalogue document (yaml, toml or json). The built-in catalogue is used when empty" type:"path" env:"BINDGEN_CATALOGUE"`
	SourceRoot      string   `help:"Directory containing all interface and schema documents" default:".." env:"BINDGEN_SOURCE_ROOT"`
	CommonSchemaDir string   `help:"Shared schema directory, relative to the source root, added to every schema include path" default:"system_api/dbus" env:"BINDGEN_COMMON_SCHEMA_DIR"`
	OutDir          string   `help:"Output directory for compiled schema modules. Wiped on every regeneration" default:"src/protos" env:"BINDGEN_OUT_DIR"`
	IndexFile       string   `help:"Module index file name inside the output directory" default:"include_protos.rs" env:"BINDGEN_INDEX_FILE"`
	IndexTemplate   string   `help:"Template of one module index line; fields: .Name, .Source" default:"pub mod {{.Name}};" env:"BINDGEN_INDEX_TEMPLATE"`
	BindingsOut     string   `help:"Output directory passed to the binding generator" default:"src/bindings" env:"BINDGEN_BINDINGS_OUT"`
	BindingTool     string   `help:"Interface binding generator executable" default:"dbus-bindgen" env:"BINDGEN_BINDING_TOOL"`
	BindingArgs     []string `help:"Extra arguments for the binding generator" env:"BINDGEN_BINDING_ARGS"`
	SchemaTool      string   `help:"Schema compiler executable" default:"protoc" env:"BINDGEN_SCHEMA_TOOL"`
	SchemaArgs      []string `help:"Extra arguments for the schema compiler" env:"BINDGEN_SCHEMA_ARGS"`
	SchemaOutFlag   string   `help:"Schema compiler output flag" default:"--rust_out" env:"BINDGEN_SCHEMA_OUT_FLAG"`
	MetricsFile     string   `help:"Write Prometheus metrics to this file after each run" type:"path" env:"BINDGEN_METRICS_FILE"`
}

// Run is called by Kong when the generate command is executed.
func (g *Generate) Run(logger *slog.Logger, mode outdir.Mode) error {
	logger.Debug("Starting code generation",
		"sourceRoot", g.SourceRoot,
		"outDir", g.OutDir,
		"schemaMode", mode.String())

	cat, err := g.loadCatalogue()
	if err != nil {
		return err
	}
	gen, metrics, err := g.newGenerator(cat, logger, mode, tool.NewRunner(logger))
	if err != nil {
		return err
	}
	_, runErr := gen.Run()
	g.writeMetrics(logger, metrics)
	return runErr
}

func (g *Generate) loadCatalogue() (*catalogue.Catalogue, error) {
	return catalogue.LoadOrDefault(g.Catalogue)
}

func (g *Generate) resolver() resolve.Resolver {
	return resolve.New(g.SourceRoot, g.CommonSchemaDir)
}

func (g *Generate) newGenerator(cat *catalogue.Catalogue, logger *slog.Logger, mode outdir.Mode, runner *tool.Runner) (*generator.Generator, *telemetry.Metrics, error) {
	out, err := outdir.New(g.OutDir, g.IndexFile, g.IndexTemplate)
	if err != nil {
		return nil, nil, err
	}

	var metrics *telemetry.Metrics
	if g.MetricsFile != "" {
		metrics = telemetry.NewMetrics()
	}

	gen, err := generator.New(generator.Config{
		Catalogue: cat,
		Resolver:  g.resolver(),
		Output:    out,
		Bindings:  tool.NewExecBindingGenerator(runner, g.BindingTool, g.BindingArgs, g.BindingsOut),
		Compiler:  tool.NewExecSchemaCompiler(runner, g.SchemaTool, g.SchemaArgs, g.SchemaOutFlag),
		Mode:      mode,
		Metrics:   metrics,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return gen, metrics, nil
}

func (g *Generate) writeMetrics(logger *slog.Logger, metrics *telemetry.Metrics) {
	if metrics == nil {
		return
	}
	if err := metrics.WriteTextfile(g.MetricsFile); err != nil {
		logger.Warn("Failed to write metrics file", "path", g.MetricsFile, "error", err)
		return
	}
	logger.Debug("Wrote metrics file", "path", g.MetricsFile)
}

type Validate struct {
	Catalogue string `help:"Catalogue document (yaml, toml or json). The built-in catalogue is used when empty" type:"path" env:"BINDGEN_CATALOGUE"`
}

// Run is called by Kong when the validate command is executed.
func (v *Validate) Run(logger *slog.Logger) error {
	cat, err := catalogue.LoadOrDefault(v.Catalogue)
	if err != nil {
		return err
	}
	if err := cat.Validate(); err != nil {
		for _, e := range unjoin(err) {
			logger.Error("Catalogue problem", "error", e)
		}
		return fmt.Errorf("catalogue is invalid: %w", err)
	}
	logger.Info("Catalogue is valid", "bindings", len(cat.Bindings), "protos", len(cat.Protos))
	return nil
}

func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
