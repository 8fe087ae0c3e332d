package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/bindgen/internal/codegen/generator"
	"github.com/Alia5/bindgen/internal/codegen/resolve"
	th "github.com/Alia5/bindgen/internal/testing"
)

type countingRunner struct {
	runs atomic.Int32
	err  error
}

func (r *countingRunner) Run() (generator.Result, error) {
	r.runs.Add(1)
	return generator.Result{}, r.err
}

func TestChangedDetectsContentChanges(t *testing.T) {
	cat := th.ProtoCatalogue("arc", "fido")
	ws := th.NewWorkspace(t, cat)
	w := New(&countingRunner{}, resolve.New(ws.Root, ""), cat, 0, th.DiscardLogger())
	assert.Equal(t, DefaultDebounce, w.debounce)

	w.snapshot()
	assert.Empty(t, w.changed())

	arc := filepath.Join(ws.Root, "protos", "arc.proto")
	data, err := os.ReadFile(arc)
	require.NoError(t, err)

	// rewriting identical content is not a change
	require.NoError(t, os.WriteFile(arc, data, 0o644))
	assert.Empty(t, w.changed())

	require.NoError(t, os.WriteFile(arc, []byte("syntax = \"proto3\";\n"), 0o644))
	assert.Equal(t, []string{arc}, w.changed())

	fido := filepath.Join(ws.Root, "protos", "fido.proto")
	require.NoError(t, os.Remove(fido))
	assert.Equal(t, []string{arc, fido}, w.changed())

	w.snapshot()
	assert.Empty(t, w.changed())
}

func TestRunRegeneratesOnChange(t *testing.T) {
	cat := th.ProtoCatalogue("arc")
	ws := th.NewWorkspace(t, cat)
	runner := &countingRunner{err: errors.New("first run fails")}
	w := New(runner, resolve.New(ws.Root, ""), cat, 20*time.Millisecond, th.DiscardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return runner.runs.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	// give the watcher a moment to settle before editing
	time.Sleep(50 * time.Millisecond)
	arc := filepath.Join(ws.Root, "protos", "arc.proto")
	require.NoError(t, os.WriteFile(arc, []byte("message Arc {}\n"), 0o644))

	require.Eventually(t, func() bool { return runner.runs.Load() == 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRunFailsWithoutWatchableDirectory(t *testing.T) {
	cat := th.ProtoCatalogue("arc")
	w := New(&countingRunner{}, resolve.New(filepath.Join(t.TempDir(), "missing"), ""), cat, 0, th.DiscardLogger())
	err := w.Run(context.Background())
	assert.Error(t, err)
}
