// Package watch reruns generation when a catalogue document changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/crypto/blake2b"

	"github.com/Alia5/bindgen/internal/codegen/catalogue"
	"github.com/Alia5/bindgen/internal/codegen/generator"
	"github.com/Alia5/bindgen/internal/codegen/resolve"
)

// DefaultDebounce is how long the watcher waits for a burst of file events to
// settle before regenerating.
const DefaultDebounce = 300 * time.Millisecond

// Runner performs one full generation run.
type Runner interface {
	Run() (generator.Result, error)
}

type digest [blake2b.Size256]byte

// Watcher watches the directories of every catalogue document and runs
// generation again when the content of one of them changes. Events that leave
// the content untouched, such as an editor rewriting a file verbatim, are
// ignored.
type Watcher struct {
	runner   Runner
	sources  []string
	debounce time.Duration
	logger   *slog.Logger

	digests map[string]digest
}

func New(runner Runner, resolver resolve.Resolver, cat *catalogue.Catalogue, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	var sources []string
	for _, rel := range cat.Sources() {
		sources = append(sources, filepath.Clean(resolver.Path(rel)))
	}
	return &Watcher{
		runner:   runner,
		sources:  sources,
		debounce: debounce,
		logger:   logger,
		digests:  map[string]digest{},
	}
}

// Run generates once and then on every change until ctx is done.
// Generation errors are logged; only watcher setup failures are returned.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	watched := 0
	seen := map[string]bool{}
	for _, src := range w.sources {
		dir := filepath.Dir(src)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := fsw.Add(dir); err != nil {
			w.logger.Warn("Cannot watch directory", "dir", dir, "error", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		return errors.New("no catalogue directory could be watched")
	}
	w.logger.Info("Watching catalogue documents", "documents", len(w.sources), "directories", watched)

	tracked := make(map[string]bool, len(w.sources))
	for _, src := range w.sources {
		tracked[src] = true
	}

	w.generate()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !tracked[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.logger.Debug("Catalogue document event", "event", event.Op.String(), "file", event.Name)
			timer.Reset(w.debounce)

		case <-timer.C:
			changed := w.changed()
			if len(changed) == 0 {
				w.logger.Debug("Catalogue documents unchanged")
				continue
			}
			w.logger.Info("Catalogue documents changed", "files", changed)
			w.generate()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", "error", err)
		}
	}
}

func (w *Watcher) generate() {
	if _, err := w.runner.Run(); err != nil {
		w.logger.Error("Generation failed; waiting for changes", "error", err)
	}
	w.snapshot()
}

func (w *Watcher) snapshot() {
	for _, src := range w.sources {
		if d, ok := fileDigest(src); ok {
			w.digests[src] = d
		} else {
			delete(w.digests, src)
		}
	}
}

// changed lists documents whose content differs from the last snapshot,
// including documents that appeared or disappeared.
func (w *Watcher) changed() []string {
	var out []string
	for _, src := range w.sources {
		d, ok := fileDigest(src)
		prev, had := w.digests[src]
		if ok != had || ok && d != prev {
			out = append(out, src)
		}
	}
	return out
}

func fileDigest(path string) (digest, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return digest{}, false
	}
	return blake2b.Sum256(data), true
}
