// Package cache stores introspected classes on disk, addressed by a BLAKE3
// hash of the class-file bytes they were derived from.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
)

// schemaVersion is mixed into every key so that a change to the stored
// representation invalidates old entries.
const schemaVersion = "mood-ir-v1"

// Cache provides file-based caching of derived class data.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

// entry is the on-disk record.
type entry struct {
	Key       string          `json:"key"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// New creates a new cache instance. A disabled cache never hits and never writes.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
	}, nil
}

// Disabled returns a cache that does nothing.
func Disabled() *Cache {
	return &Cache{}
}

// Enabled reports whether the cache reads and writes entries.
func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// Key computes the cache key of class-file content.
func Key(classBytes []byte) string {
	h := blake3.New()
	h.Write([]byte(schemaVersion))
	h.Write(classBytes)
	return hex.EncodeToString(h.Sum(nil))
}

// Load decodes the entry stored under key into v. It reports false on a
// miss, an expired entry, or an undecodable entry.
func (c *Cache) Load(key string, v any) bool {
	if !c.Enabled() {
		return false
	}
	path := c.keyPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Key != key {
		return false
	}
	if c.ttl > 0 && time.Since(e.Timestamp) > c.ttl {
		os.Remove(path)
		return false
	}
	return json.Unmarshal(e.Data, v) == nil
}

// Store encodes v under key.
func (c *Cache) Store(key string, v any) error {
	if !c.Enabled() {
		return nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data, err := json.Marshal(entry{Key: key, Timestamp: time.Now(), Data: payload})
	if err != nil {
		return err
	}
	// Write-then-rename so concurrent readers never see a partial entry.
	tmp, err := os.CreateTemp(c.dir, "entry-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.keyPath(key))
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.Enabled() {
		return nil
	}
	err := os.RemoveAll(c.dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.MkdirAll(c.dir, 0755)
}

func (c *Cache) keyPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Stats returns cache statistics.
type Stats struct {
	Entries   int   `json:"entries"`
	TotalSize int64 `json:"total_size"`
}

// GetStats returns statistics about the cache.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.Enabled() {
		return &Stats{}, nil
	}
	stats := &Stats{}
	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		stats.Entries++
		stats.TotalSize += info.Size()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
