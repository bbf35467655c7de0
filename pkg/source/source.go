// Package source resolves class names to class-file bytes.
package source

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/panbanda/mood/pkg/classfile"
)

// ErrClassNotFound is returned when no source holds the requested class.
var ErrClassNotFound = errors.New("class not found")

// ClassSource provides class-file content for a class name.
// Names may be dotted (com.example.Base) or internal (com/example/Base).
type ClassSource interface {
	// Read returns the class-file bytes of the named class.
	Read(className string) ([]byte, error)
}

func entryName(className string) string {
	return classfile.InternalName(strings.TrimSuffix(className, ".class")) + ".class"
}

func notFound(className string) error {
	return fmt.Errorf("%w: %s", ErrClassNotFound, className)
}

// DirSource reads class files from a directory tree laid out by package.
type DirSource struct {
	root string
}

// NewDir creates a source rooted at dir.
func NewDir(dir string) *DirSource {
	return &DirSource{root: dir}
}

// Root returns the directory this source reads from.
func (d *DirSource) Root() string {
	return d.root
}

// Read implements ClassSource.
func (d *DirSource) Read(className string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(d.root, filepath.FromSlash(entryName(className))))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(className)
	}
	return data, err
}

// ArchiveSource reads class files from a JAR or ZIP archive.
// It is safe for concurrent use by multiple goroutines.
type ArchiveSource struct {
	path    string
	reader  *zip.ReadCloser
	entries map[string]*zip.File
	mu      sync.Mutex
}

// OpenArchive opens the archive at path and indexes its entries.
func OpenArchive(path string) (*ArchiveSource, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	entries := make(map[string]*zip.File, len(rc.File))
	for _, f := range rc.File {
		entries[f.Name] = f
	}
	return &ArchiveSource{path: path, reader: rc, entries: entries}, nil
}

// Path returns the archive location.
func (a *ArchiveSource) Path() string {
	return a.path
}

// Entries returns the archive entry names in archive order.
func (a *ArchiveSource) Entries() []string {
	names := make([]string, 0, len(a.reader.File))
	for _, f := range a.reader.File {
		names = append(names, f.Name)
	}
	return names
}

// Read implements ClassSource.
func (a *ArchiveSource) Read(className string) ([]byte, error) {
	f, ok := a.entries[entryName(className)]
	if !ok {
		return nil, notFound(className)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Close releases the archive.
func (a *ArchiveSource) Close() error {
	return a.reader.Close()
}

// MapSource serves class files held in memory, keyed by internal name.
type MapSource map[string][]byte

// Read implements ClassSource.
func (m MapSource) Read(className string) ([]byte, error) {
	data, ok := m[strings.TrimSuffix(entryName(className), ".class")]
	if !ok {
		return nil, notFound(className)
	}
	return data, nil
}

// Classpath searches an ordered list of sources; the first hit wins.
type Classpath struct {
	sources []ClassSource
}

// NewClasspath creates a classpath over sources.
func NewClasspath(sources ...ClassSource) *Classpath {
	return &Classpath{sources: sources}
}

// Sources returns the underlying sources in search order.
func (c *Classpath) Sources() []ClassSource {
	return c.sources
}

// Read implements ClassSource.
func (c *Classpath) Read(className string) ([]byte, error) {
	for _, s := range c.sources {
		data, err := s.Read(className)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrClassNotFound) {
			return nil, err
		}
	}
	return nil, notFound(className)
}

// Close closes every archive on the classpath.
func (c *Classpath) Close() error {
	var errs []error
	for _, s := range c.sources {
		if closer, ok := s.(io.Closer); ok {
			errs = append(errs, closer.Close())
		}
	}
	return errors.Join(errs...)
}

// Open builds a classpath from directory and .jar/.zip entries.
func Open(entries []string) (*Classpath, error) {
	cp := &Classpath{}
	for _, entry := range entries {
		info, err := os.Stat(entry)
		if err != nil {
			cp.Close()
			return nil, fmt.Errorf("classpath entry %s: %w", entry, err)
		}
		if info.IsDir() {
			cp.sources = append(cp.sources, NewDir(entry))
			continue
		}
		archive, err := OpenArchive(entry)
		if err != nil {
			cp.Close()
			return nil, err
		}
		cp.sources = append(cp.sources, archive)
	}
	return cp, nil
}
