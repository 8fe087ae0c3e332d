// Package log builds the slog.Logger used by bindgen.
//
// bindgen runs as a build step whose stdout belongs to the build system, so
// nothing is ever logged to stdout. Console records go to stderr; a log file
// optionally receives a second copy.
package log

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// LevelTrace is below Debug and also shows every line of tool output.
const LevelTrace slog.Level = -8

// DefaultLevel keeps a successful run silent: only warnings and errors reach
// the console unless a lower level is requested.
const DefaultLevel = "warn"

var levels = map[string]slog.Level{
	"trace": LevelTrace,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel maps a level name to a slog level. Unknown names fall back to
// DefaultLevel.
func ParseLevel(s string) slog.Level {
	if l, ok := levels[s]; ok {
		return l
	}
	return levels[DefaultLevel]
}

// Format selects the record encoding: "text", "json" or "auto".
// "auto" writes text to a terminal and JSON everywhere else.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatAuto Format = "auto"
)

func (f Format) handler(w io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if f == FormatAuto {
		f = FormatJSON
		if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
			f = FormatText
		}
	}
	if f == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Tee hands each record to every sink that accepts its level.
type Tee []slog.Handler

func (t Tee) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t Tee) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t Tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(Tee, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t Tee) WithGroup(name string) slog.Handler {
	out := make(Tee, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}

// SetupLogger logs to console (normally os.Stderr) in the given format and,
// when logFile is set, to that file as text. The returned closers must be
// closed before exit.
func SetupLogger(logLevel, logFile string, format Format) (*slog.Logger, []io.Closer, error) {
	return setup(os.Stderr, logLevel, logFile, format)
}

func setup(console io.Writer, logLevel, logFile string, format Format) (*slog.Logger, []io.Closer, error) {
	level := ParseLevel(logLevel)
	sinks := Tee{format.handler(console, level)}
	if logFile == "" {
		return slog.New(sinks), nil, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	sinks = append(sinks, FormatText.handler(f, level))
	return slog.New(sinks), []io.Closer{f}, nil
}
