package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to a file in the real filesystem.
func WriteFile(t *testing.T, path string, content []byte) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", dir, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
}

// WriteClasses writes each class under root using its internal name as the
// relative path, e.g. com/example/Base -> root/com/example/Base.class.
func WriteClasses(t *testing.T, root string, classes ...*ClassBuilder) {
	t.Helper()
	for _, cb := range classes {
		WriteFile(t, filepath.Join(root, filepath.FromSlash(cb.Name)+".class"), cb.Bytes())
	}
}

// WriteJar writes the classes into a JAR archive at path.
func WriteJar(t *testing.T, path string, classes ...*ClassBuilder) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create(%s) error: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	if _, err := zw.Create("META-INF/MANIFEST.MF"); err != nil {
		t.Fatalf("zip create error: %v", err)
	}
	for _, cb := range classes {
		w, err := zw.Create(cb.Name + ".class")
		if err != nil {
			t.Fatalf("zip create error: %v", err)
		}
		if _, err := w.Write(cb.Bytes()); err != nil {
			t.Fatalf("zip write error: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close error: %v", err)
	}
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
