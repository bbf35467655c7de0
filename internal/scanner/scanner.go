package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/mood/pkg/config"
	"github.com/panbanda/mood/pkg/source"
)

const classSuffix = ".class"

// Scanner discovers class names on a classpath.
type Scanner struct {
	config  *config.Config
	matcher gitignore.Matcher
}

// NewScanner creates a new class scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Scanner{config: cfg}
	s.loadExcludePatterns()
	return s
}

// loadExcludePatterns parses the configured exclusions as gitignore patterns.
func (s *Scanner) loadExcludePatterns() {
	var patterns []gitignore.Pattern
	for _, pattern := range s.config.Exclude.Patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" || strings.HasPrefix(pattern, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}
	if len(patterns) > 0 {
		s.matcher = gitignore.NewMatcher(patterns)
	}
}

// isExcluded checks a slash-separated path relative to a classpath entry.
func (s *Scanner) isExcluded(path string, isDir bool) bool {
	if s.matcher == nil {
		return false
	}
	return s.matcher.Match(strings.Split(path, "/"), isDir)
}

// Excludes reports whether a slash-separated path relative to a classpath
// directory matches an exclusion pattern.
func (s *Scanner) Excludes(path string, isDir bool) bool {
	return s.isExcluded(path, isDir)
}

// Scan lists the internal names of all classes in the classpath entries, in
// classpath order. A class present in several entries is listed once.
func (s *Scanner) Scan(entries []string) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	add := func(found []string) {
		for _, n := range found {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}

	for _, entry := range entries {
		info, err := os.Stat(entry)
		if err != nil {
			return nil, fmt.Errorf("classpath entry %s: %w", entry, err)
		}
		var found []string
		if info.IsDir() {
			found, err = s.ScanDir(entry)
		} else {
			found, err = s.ScanArchive(entry)
		}
		if err != nil {
			return nil, err
		}
		add(found)
	}
	return names, nil
}

// ScanDir recursively scans a class directory.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if s.isExcluded(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if name, ok := s.className(rel); ok {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return names, nil
}

// ScanArchive lists the classes of a JAR or ZIP archive.
func (s *Scanner) ScanArchive(path string) ([]string, error) {
	archive, err := source.OpenArchive(path)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	var names []string
	for _, entry := range archive.Entries() {
		if strings.HasSuffix(entry, "/") || s.inExcludedDir(entry) {
			continue
		}
		if name, ok := s.className(entry); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// inExcludedDir reports whether any parent directory of an archive entry is excluded.
func (s *Scanner) inExcludedDir(entry string) bool {
	parts := strings.Split(entry, "/")
	for i := 1; i < len(parts); i++ {
		if s.isExcluded(strings.Join(parts[:i], "/"), true) {
			return true
		}
	}
	return false
}

// className maps a relative .class path to its internal class name.
func (s *Scanner) className(rel string) (string, bool) {
	if !strings.HasSuffix(rel, classSuffix) || s.isExcluded(rel, false) {
		return "", false
	}
	return strings.TrimSuffix(rel, classSuffix), true
}

// IsClassFile reports whether path names a class file.
func IsClassFile(path string) bool {
	return strings.HasSuffix(path, classSuffix)
}
