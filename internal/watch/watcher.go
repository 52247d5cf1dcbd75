// Package watch monitors a zone-file tree for edits and re-parses the
// changed file on each write, for the zonescan CLI's watch command.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Event describes one re-parse triggered by a filesystem change.
type Event struct {
	Path string
	Code int
	Err  error
}

// Watcher monitors config.Project.Root for changes to files matching
// Include (minus Exclude) and invokes onChange once per changed file in
// each debounced batch.
type Watcher struct {
	watcher  *fsnotify.Watcher
	root     string
	include  []string
	exclude  []string
	debounce time.Duration

	onChange func(path string) Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	pending   map[string]struct{}
	pendingMu sync.Mutex
	timer     *time.Timer
}

// New creates a Watcher rooted at root. onChange is invoked from the
// debounce timer's goroutine once per debounced file, and its Event is
// forwarded to events.
func New(root string, include, exclude []string, debounce time.Duration, onChange func(path string) Event) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		watcher:  fw,
		root:     root,
		include:  include,
		exclude:  exclude,
		debounce: debounce,
		onChange: onChange,
		ctx:      ctx,
		cancel:   cancel,
		pending:  make(map[string]struct{}),
	}, nil
}

// Start adds watches for every directory under root and begins
// processing events. It returns once the initial watch set is in place;
// events stream to the events channel until Stop is called.
func (w *Watcher) Start(events chan<- Event) error {
	if err := w.addWatches(); err != nil {
		return fmt.Errorf("add watches under %s: %w", w.root, err)
	}

	w.wg.Add(1)
	go w.run(events)
	return nil
}

// Stop closes the underlying fsnotify watcher and waits for the
// processing goroutine to exit.
func (w *Watcher) Stop() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) addWatches() error {
	return filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if base := filepath.Base(path); len(base) > 1 && base[0] == '.' {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			log.Printf("watch: failed to add watch for %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) matches(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range w.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	for _, pattern := range w.include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) run(events chan<- Event) {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !w.matches(ev.Name) {
				continue
			}
			w.schedule(ev.Name, events)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watch: fsnotify error: %v", err)
		}
	}
}

// schedule debounces repeated writes to the same path into a single
// re-parse, the way editors' save-then-fsync-then-chmod sequences would
// otherwise trigger three.
func (w *Watcher) schedule(path string, events chan<- Event) {
	w.pendingMu.Lock()
	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.flush(events) })
	w.pendingMu.Unlock()
}

func (w *Watcher) flush(events chan<- Event) {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	for _, p := range paths {
		select {
		case events <- w.onChange(p):
		case <-w.ctx.Done():
			return
		}
	}
}
