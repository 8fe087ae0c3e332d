package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/bindgen/internal/codegen/generator"
	"github.com/Alia5/bindgen/internal/codegen/outdir"
	"github.com/Alia5/bindgen/internal/codegen/tool"
	"github.com/Alia5/bindgen/internal/codegen/watch"
)

type Watch struct {
	Generate `embed:""`
	Debounce time.Duration `help:"Quiet period after a change before regenerating" default:"300ms" env:"BINDGEN_WATCH_DEBOUNCE"`
}

// Run is called by Kong when the watch command is executed.
func (w *Watch) Run(logger *slog.Logger, mode outdir.Mode) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.Start(ctx, logger, mode)
}

func (w *Watch) Start(ctx context.Context, logger *slog.Logger, mode outdir.Mode) error {
	cat, err := w.loadCatalogue()
	if err != nil {
		return err
	}
	gen, metrics, err := w.newGenerator(cat, logger, mode, tool.NewRunner(logger))
	if err != nil {
		return err
	}

	runner := runFunc(func() (generator.Result, error) {
		res, err := gen.Run()
		w.writeMetrics(logger, metrics)
		return res, err
	})
	return watch.New(runner, w.resolver(), cat, w.Debounce, logger).Run(ctx)
}

type runFunc func() (generator.Result, error)

func (f runFunc) Run() (generator.Result, error) { return f() }
