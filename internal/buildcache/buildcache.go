// Package buildcache remembers content fingerprints of built documents so
// unchanged documents can be skipped on the next build.
package buildcache

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/alnah/go-docbuild/internal/fileutil"
	"github.com/alnah/go-docbuild/internal/yamlutil"
)

// FileName is the cache file written into the output directory.
const FileName = ".docbuild-cache.yaml"

// formatVersion is bumped whenever fingerprint inputs change meaning.
// A cache with another version is discarded.
const formatVersion = 1

// Fingerprint returns the hex BLAKE3 digest of content and the salt values.
// Salts carry the options that change the output (mode, style, page size).
func Fingerprint(content []byte, salts ...string) string {
	h := blake3.New()

	_, _ = h.Write(content)
	_, _ = h.Write([]byte{0})

	for _, s := range salts {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}

// file is the on-disk layout.
type file struct {
	Version int               `yaml:"version"`
	Entries map[string]string `yaml:"entries"`
}

// Cache maps output keys to the fingerprint they were last built from.
// Safe for concurrent use.
type Cache struct {
	path string

	mu      sync.Mutex
	entries map[string]string
	dirty   bool
}

// Load reads the cache from dir. A missing, unreadable, corrupt or outdated
// cache file yields an empty cache, which only costs a full rebuild.
func Load(dir string) *Cache {
	c := &Cache{
		path:    filepath.Join(dir, FileName),
		entries: make(map[string]string),
	}

	var f file
	if err := yamlutil.DecodeFile(c.path, &f, false); err != nil {
		return c
	}
	if f.Version != formatVersion {
		return c
	}
	for k, v := range f.Entries {
		c.entries[k] = v
	}
	return c
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Fresh reports whether key was last built from fingerprint fp.
func (c *Cache) Fresh(key, fp string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored, ok := c.entries[key]
	return ok && stored == fp
}

// Put records that key was built from fingerprint fp.
func (c *Cache) Put(key, fp string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[key] == fp {
		return
	}
	c.entries[key] = fp
	c.dirty = true
}

// Forget drops key, forcing its next build.
func (c *Cache) Forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.dirty = true
	}
}

// Save writes the cache atomically. It is a no-op when nothing changed.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}

	data, err := yamlutil.Marshal(file{Version: formatVersion, Entries: c.entries})
	if err != nil {
		return fmt.Errorf("encoding build cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o750); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := fileutil.WriteFileAtomic(c.path, data, 0o600); err != nil {
		return fmt.Errorf("writing build cache: %w", err)
	}

	c.dirty = false
	return nil
}
