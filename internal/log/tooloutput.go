package log

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
)

// ToolOutput is an io.Writer for the stdout or stderr of an external tool.
// Complete lines are emitted as log records at a fixed level; a trailing
// partial line is held until the next newline or Flush.
type ToolOutput struct {
	logger *slog.Logger
	level  slog.Level
	tool   string
	stream string

	mu  sync.Mutex
	buf bytes.Buffer
}

// NewToolOutput creates a ToolOutput. If logger is nil, output is discarded.
func NewToolOutput(logger *slog.Logger, level slog.Level, tool, stream string) *ToolOutput {
	return &ToolOutput{logger: logger, level: level, tool: tool, stream: stream}
}

func (o *ToolOutput) Write(p []byte) (int, error) {
	if o.logger == nil {
		return len(p), nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	o.buf.Write(p)
	for {
		i := bytes.IndexByte(o.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := o.buf.Next(i + 1)
		o.emit(line[:i])
	}
	return len(p), nil
}

// Flush emits any buffered partial line.
func (o *ToolOutput) Flush() {
	if o.logger == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.buf.Len() > 0 {
		o.emit(o.buf.Bytes())
		o.buf.Reset()
	}
}

func (o *ToolOutput) emit(line []byte) {
	line = bytes.TrimRight(line, "\r")
	if len(line) == 0 {
		return
	}
	o.logger.Log(context.Background(), o.level, string(line), "tool", o.tool, "stream", o.stream)
}
