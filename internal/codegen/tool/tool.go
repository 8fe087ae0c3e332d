// Package tool wraps the external generators the build delegates to: the
// interface binding generator, called once for the whole binding catalogue,
// and the schema compiler, called once per schema document.
package tool

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sys/execabs"

	"github.com/Alia5/bindgen/internal/codegen/catalogue"
	"github.com/Alia5/bindgen/internal/log"
)

// BindingGenerator generates bindings for every catalogue entry in one call.
type BindingGenerator interface {
	GenerateBindings(sourceRoot string, bindings []catalogue.Binding) error
}

// SchemaCompiler compiles a single schema document into outDir.
type SchemaCompiler interface {
	Compile(input string, includeDirs []string, outDir string) error
}

// ExitError is returned when an external tool could not be started or
// exited unsuccessfully.
type ExitError struct {
	Args []string
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Runner runs external commands synchronously and forwards their output to
// the logger: stdout at debug, stderr at warn.
type Runner struct {
	logger *slog.Logger
	// Dir is the working directory of started commands; empty means the
	// current directory.
	Dir string
}

func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logger}
}

func (r *Runner) Run(name string, args ...string) error {
	cmd := execabs.Command(name, args...)
	cmd.Dir = r.Dir

	stdout := log.NewToolOutput(r.logger, slog.LevelDebug, name, "stdout")
	stderr := log.NewToolOutput(r.logger, slog.LevelWarn, name, "stderr")
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if r.logger != nil {
		r.logger.Log(context.Background(), log.LevelTrace, "Running external tool", "args", cmd.Args)
	}
	err := cmd.Run()
	stdout.Flush()
	stderr.Flush()
	if err != nil {
		return &ExitError{Args: cmd.Args, Err: err}
	}
	return nil
}
