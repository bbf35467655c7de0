package watch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/panbanda/mood/internal/scanner"
)

// DefaultDebounce is how long a change must be quiet before it is reported.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors classpath entries and reports batches of changed class
// files and archives. MOOD metrics are global to the class set, so a batch
// triggers one callback rather than one per file.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	scanner   *scanner.Scanner
	debounce  time.Duration
	entries   []string
	callback  func(changed []string)
	out       io.Writer
	mu        sync.Mutex
	pending   map[string]time.Time
	// roots maps each watched directory to the classpath directory it belongs to.
	roots map[string]string
}

// NewWatcher creates a watcher over classpath entries.
func NewWatcher(entries []string, sc *scanner.Scanner, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if sc == nil {
		sc = scanner.NewScanner(nil)
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		scanner:   sc,
		debounce:  debounce,
		entries:   entries,
		out:       os.Stdout,
		pending:   make(map[string]time.Time),
		roots:     make(map[string]string),
	}, nil
}

// SetCallback sets the function called with the changed paths of a batch.
func (w *Watcher) SetCallback(cb func(changed []string)) {
	w.callback = cb
}

// SetOutput redirects status messages.
func (w *Watcher) SetOutput(out io.Writer) {
	w.out = out
}

// addEntries registers every classpath directory tree and archive.
func (w *Watcher) addEntries() error {
	for _, entry := range w.entries {
		info, err := os.Stat(entry)
		if err != nil {
			return fmt.Errorf("watch %s: %w", entry, err)
		}
		if !info.IsDir() {
			if err := w.fsWatcher.Add(entry); err != nil {
				return err
			}
			continue
		}
		if err := w.addTree(entry, entry); err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) addTree(root, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if rel, ok := w.relative(root, path); ok && rel != "." && w.scanner.Excludes(rel, true) {
			return filepath.SkipDir
		}
		w.mu.Lock()
		w.roots[path] = root
		w.mu.Unlock()
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) relative(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Start begins watching for changes and blocks until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addEntries(); err != nil {
		return err
	}

	color.New(color.FgCyan).Fprintf(w.out, "Watching %s for class changes...\n", strings.Join(w.entries, ", "))
	color.New(color.FgCyan).Fprintln(w.out, "Press Ctrl+C to stop")
	fmt.Fprintln(w.out)

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			color.New(color.FgRed).Fprintf(w.out, "Watch error: %v\n", err)
		}
	}
}

// handleEvent records a relevant filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	path := event.Name

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if root, ok := w.rootOf(filepath.Dir(path)); ok {
				_ = w.addTree(root, path)
			}
			return
		}
	}

	if !w.relevant(path) {
		return
	}

	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) rootOf(dir string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	root, ok := w.roots[dir]
	return root, ok
}

// relevant reports whether path is a watched archive or a non-excluded class file.
func (w *Watcher) relevant(path string) bool {
	if slices.Contains(w.entries, path) {
		return true
	}
	if !scanner.IsClassFile(path) {
		return false
	}
	root, ok := w.rootOf(filepath.Dir(path))
	if !ok {
		return true
	}
	rel, ok := w.relative(root, path)
	return !ok || !w.scanner.Excludes(rel, false)
}

// processDebounced flushes quiet changes until ctx is done.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

// takeReady removes and returns the paths quiet for the debounce period.
func (w *Watcher) takeReady() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	var ready []string
	for path, lastMod := range w.pending {
		if now.Sub(lastMod) >= w.debounce {
			ready = append(ready, path)
		}
	}
	for _, path := range ready {
		delete(w.pending, path)
	}
	slices.Sort(ready)
	return ready
}

// processPending runs the callback once for the current batch of ready paths.
func (w *Watcher) processPending() {
	ready := w.takeReady()
	if len(ready) == 0 || w.callback == nil {
		return
	}

	color.New(color.FgYellow).Fprintf(w.out, "\n%d class file(s) changed\n", len(ready))
	fmt.Fprintln(w.out, strings.Repeat("-", 40))
	w.callback(ready)
	fmt.Fprintln(w.out)
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// WatchedPaths returns the watched directories and archives.
func (w *Watcher) WatchedPaths() []string {
	return w.fsWatcher.WatchList()
}
