package cache

import (
	"os"
	"path/filepath"
	"testing"
)

type payload struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()

	c, err := New(filepath.Join(tmpDir, "cache"), 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !c.Enabled() {
		t.Error("cache should be enabled")
	}

	c, err = New("", 0, false)
	if err != nil {
		t.Fatalf("New() error for disabled cache: %v", err)
	}
	if c.Enabled() {
		t.Error("cache should be disabled")
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "nested", "cache", "dir")
	if _, err := New(cacheDir, 24, true); err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		t.Error("New() should create cache directory")
	}
}

func TestKey(t *testing.T) {
	a := Key([]byte("class A"))
	if a != Key([]byte("class A")) {
		t.Error("Key() should be deterministic")
	}
	if a == Key([]byte("class B")) {
		t.Error("Key() should differ for different content")
	}
	if len(a) != 64 {
		t.Errorf("len(Key()) = %d, want 64 hex chars", len(a))
	}
}

func TestStoreAndLoad(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"), 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	key := Key([]byte("content"))
	want := payload{Name: "Base", Items: []string{"foo", "bar"}}
	if err := c.Store(key, want); err != nil {
		t.Fatalf("Store() error: %v", err)
	}

	var got payload
	if !c.Load(key, &got) {
		t.Fatal("Load() returned false for existing key")
	}
	if got.Name != want.Name || len(got.Items) != 2 {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	if c.Load(Key([]byte("other")), &got) {
		t.Error("Load() returned true for missing key")
	}
}

func TestStoreAndLoadNonASCII(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"), 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	want := payload{Name: "p/Smile😀", Items: []string{"caf\u00e9", "a\x00b"}}
	key := Key([]byte(want.Name))
	if err := c.Store(key, want); err != nil {
		t.Fatalf("Store() error: %v", err)
	}

	var got payload
	if !c.Load(key, &got) {
		t.Fatal("Load() returned false for existing key")
	}
	if got.Name != want.Name {
		t.Errorf("Load() name = %q, want %q", got.Name, want.Name)
	}
	for i := range want.Items {
		if got.Items[i] != want.Items[i] {
			t.Errorf("Load() items[%d] = %q, want %q", i, got.Items[i], want.Items[i])
		}
	}
}

func TestDisabledCache(t *testing.T) {
	c := Disabled()
	if err := c.Store("k", payload{}); err != nil {
		t.Errorf("Store() on disabled cache error: %v", err)
	}
	var p payload
	if c.Load("k", &p) {
		t.Error("Load() on disabled cache should miss")
	}
	if err := c.Clear(); err != nil {
		t.Errorf("Clear() on disabled cache error: %v", err)
	}

	var nilCache *Cache
	if nilCache.Enabled() {
		t.Error("nil cache should report disabled")
	}
}

func TestLoadCorruptEntry(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := New(dir, 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	var p payload
	if c.Load("bad", &p) {
		t.Error("Load() should miss on corrupt entry")
	}
}

func TestClearAndStats(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"), 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	for _, s := range []string{"a", "b", "c"} {
		if err := c.Store(Key([]byte(s)), payload{Name: s}); err != nil {
			t.Fatalf("Store() error: %v", err)
		}
	}

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.Entries != 3 {
		t.Errorf("Entries = %d, want 3", stats.Entries)
	}
	if stats.TotalSize == 0 {
		t.Error("TotalSize should be > 0")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	stats, err = c.GetStats()
	if err != nil {
		t.Fatalf("GetStats() after Clear error: %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("Entries after Clear = %d, want 0", stats.Entries)
	}
}
