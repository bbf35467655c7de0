package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/panbanda/mood/internal/scanner"
	"github.com/panbanda/mood/internal/testutil"
	"github.com/panbanda/mood/pkg/config"
)

func newTestWatcher(t *testing.T, entries []string, debounce time.Duration) *Watcher {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Exclude.Patterns = []string{"generated/"}
	w, err := NewWatcher(entries, scanner.NewScanner(cfg), debounce)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.SetOutput(io.Discard)
	t.Cleanup(func() { w.Stop() })
	return w
}

func TestNewWatcher(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		debounce time.Duration
		want     time.Duration
	}{
		{"default debounce", 0, DefaultDebounce},
		{"custom debounce", time.Second, time.Second},
		{"negative debounce defaults", -time.Second, DefaultDebounce},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWatcher(t, []string{dir}, tt.debounce)
			if w.debounce != tt.want {
				t.Errorf("debounce = %v, want %v", w.debounce, tt.want)
			}
			if w.pending == nil {
				t.Error("pending map should be initialized")
			}
		})
	}

	w, err := NewWatcher([]string{dir}, nil, 0)
	if err != nil {
		t.Fatalf("NewWatcher(nil scanner) error = %v", err)
	}
	defer w.Stop()
	if w.scanner == nil {
		t.Error("scanner should default")
	}
}

func TestWatcher_addEntries(t *testing.T) {
	dir := t.TempDir()
	classes := filepath.Join(dir, "classes")
	jar := filepath.Join(dir, "lib.jar")
	testutil.WriteClasses(t, classes,
		testutil.NewClass("p/A", ""),
		testutil.NewClass("p/generated/G", ""),
	)
	testutil.WriteJar(t, jar, testutil.NewClass("q/B", ""))

	w := newTestWatcher(t, []string{classes, jar}, time.Second)
	if err := w.addEntries(); err != nil {
		t.Fatalf("addEntries() error = %v", err)
	}

	watched := map[string]bool{}
	for _, p := range w.WatchedPaths() {
		watched[p] = true
	}
	for _, want := range []string{classes, filepath.Join(classes, "p"), jar} {
		if !watched[want] {
			t.Errorf("WatchedPaths() missing %s", want)
		}
	}
	if watched[filepath.Join(classes, "p", "generated")] {
		t.Error("excluded directory should not be watched")
	}

	missing := newTestWatcher(t, []string{filepath.Join(dir, "missing")}, time.Second)
	if err := missing.addEntries(); err == nil {
		t.Error("addEntries() should fail for a missing entry")
	}
}

func TestWatcher_handleEvent(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteClasses(t, dir, testutil.NewClass("p/A", ""), testutil.NewClass("p/generated/G", ""))
	w := newTestWatcher(t, []string{dir}, time.Second)
	if err := w.addEntries(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write class", fsnotify.Event{Name: filepath.Join(dir, "p", "A.class"), Op: fsnotify.Write}, true},
		{"remove class", fsnotify.Event{Name: filepath.Join(dir, "p", "Gone.class"), Op: fsnotify.Remove}, true},
		{"chmod ignored", fsnotify.Event{Name: filepath.Join(dir, "p", "A.class"), Op: fsnotify.Chmod}, false},
		{"non-class ignored", fsnotify.Event{Name: filepath.Join(dir, "p", "notes.txt"), Op: fsnotify.Write}, false},
		{"excluded ignored", fsnotify.Event{Name: filepath.Join(dir, "p", "generated", "G.class"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w.mu.Lock()
			w.pending = map[string]time.Time{}
			w.mu.Unlock()

			w.handleEvent(tt.event)

			w.mu.Lock()
			_, got := w.pending[tt.event.Name]
			w.mu.Unlock()
			if got != tt.want {
				t.Errorf("pending[%s] = %v, want %v", tt.event.Name, got, tt.want)
			}
		})
	}
}

func TestWatcher_handleEvent_NewDirectory(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t, []string{dir}, time.Second)
	if err := w.addEntries(); err != nil {
		t.Fatal(err)
	}

	sub := filepath.Join(dir, "newpkg")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	w.handleEvent(fsnotify.Event{Name: sub, Op: fsnotify.Create})

	if _, ok := w.rootOf(sub); !ok {
		t.Error("new directory should be registered")
	}
}

func TestWatcher_processPending_Batches(t *testing.T) {
	w := newTestWatcher(t, []string{t.TempDir()}, 50*time.Millisecond)

	var batches [][]string
	w.SetCallback(func(changed []string) {
		batches = append(batches, changed)
	})

	old := time.Now().Add(-time.Second)
	w.pending["b/B.class"] = old
	w.pending["a/A.class"] = old
	w.pending["c/Fresh.class"] = time.Now().Add(time.Hour)

	w.processPending()

	if len(batches) != 1 {
		t.Fatalf("callback ran %d times, want 1", len(batches))
	}
	if got := batches[0]; len(got) != 2 || got[0] != "a/A.class" || got[1] != "b/B.class" {
		t.Errorf("batch = %v, want sorted [a/A.class b/B.class]", got)
	}
	if _, ok := w.pending["c/Fresh.class"]; !ok {
		t.Error("recent change should stay pending")
	}

	w.processPending()
	if len(batches) != 1 {
		t.Error("no new batch expected while changes are not quiet")
	}
}

func TestWatcher_processPending_NoCallback(t *testing.T) {
	w := newTestWatcher(t, []string{t.TempDir()}, time.Millisecond)
	w.pending["A.class"] = time.Now().Add(-time.Second)
	w.processPending()
	if len(w.pending) != 0 {
		t.Error("ready paths should be drained even without a callback")
	}
}

func TestWatcher_Start_Context(t *testing.T) {
	w := newTestWatcher(t, []string{t.TempDir()}, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := w.Start(ctx); err != context.DeadlineExceeded {
		t.Errorf("Start() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestWatcher_Start_ClassChange(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t, []string{dir}, 50*time.Millisecond)

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})
	w.SetCallback(func(changed []string) {
		mu.Lock()
		defer mu.Unlock()
		if got == nil {
			got = changed
			close(done)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "A.class")
	if err := os.WriteFile(path, testutil.NewClass("A", "").Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("callback was not invoked")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != path {
		t.Errorf("changed = %v, want [%s]", got, path)
	}
}
