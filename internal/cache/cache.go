// Package cache owns the structured representations of built documents.
// Entries live in memory for the process lifetime and are written through
// to one JSON file per document identity under the cache root; the file's
// presence is the sole cache-hit signal. Entries are never evicted
// automatically; invalidation is an explicit rebuild.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dgallion1/docchat/internal/document"
	"golang.org/x/sync/singleflight"
)

// Builder produces the structured representation for a cache miss.
type Builder func(ctx context.Context) (*document.Document, error)

// Cache maps document identity to its structured representation.
type Cache struct {
	dir string
	log *slog.Logger

	mu   sync.RWMutex
	docs map[string]*document.Document

	group singleflight.Group
}

// New creates a cache rooted at dir. dir may be empty for an in-memory-only
// cache (no persistence across restarts).
func New(dir string, log *slog.Logger) (*Cache, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	return &Cache{
		dir:  dir,
		log:  log,
		docs: make(map[string]*document.Document),
	}, nil
}

// GetOrBuild returns the cached document for id, building it at most once.
// Concurrent calls for the same unbuilt identity share a single build.
func (c *Cache) GetOrBuild(ctx context.Context, id string, build Builder) (*document.Document, error) {
	c.mu.RLock()
	doc, ok := c.docs[id]
	c.mu.RUnlock()
	if ok {
		return doc, nil
	}

	v, err, _ := c.group.Do(id, func() (any, error) {
		// Re-check under the flight: another caller may have finished.
		c.mu.RLock()
		doc, ok := c.docs[id]
		c.mu.RUnlock()
		if ok {
			return doc, nil
		}

		if doc := c.loadDisk(id); doc != nil {
			c.store(id, doc)
			return doc, nil
		}

		doc, err := build(ctx)
		if err != nil {
			return nil, err
		}
		c.store(id, doc)
		c.writeDisk(id, doc)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*document.Document), nil
}

// Rebuild forces a fresh build for id, replacing any memory and disk entry.
func (c *Cache) Rebuild(ctx context.Context, id string, build Builder) (*document.Document, error) {
	c.mu.Lock()
	delete(c.docs, id)
	c.mu.Unlock()
	if c.dir != "" {
		os.Remove(c.entryPath(id))
	}
	return c.GetOrBuild(ctx, id, build)
}

// Get returns a cached document without building, checking memory then disk.
func (c *Cache) Get(id string) (*document.Document, bool) {
	c.mu.RLock()
	doc, ok := c.docs[id]
	c.mu.RUnlock()
	if ok {
		return doc, true
	}
	if doc := c.loadDisk(id); doc != nil {
		c.store(id, doc)
		return doc, true
	}
	return nil, false
}

// List returns the identities of all cached documents, memory and disk.
func (c *Cache) List() []string {
	seen := make(map[string]bool)
	var ids []string

	c.mu.RLock()
	for id := range c.docs {
		seen[id] = true
		ids = append(ids, id)
	}
	c.mu.RUnlock()

	if c.dir != "" {
		entries, err := os.ReadDir(c.dir)
		if err == nil {
			for _, e := range entries {
				name := e.Name()
				if e.IsDir() || !strings.HasSuffix(name, ".json") {
					continue
				}
				id := strings.TrimSuffix(name, ".json")
				if !seen[id] {
					ids = append(ids, id)
				}
			}
		}
	}
	return ids
}

func (c *Cache) store(id string, doc *document.Document) {
	c.mu.Lock()
	c.docs[id] = doc
	c.mu.Unlock()
}

// entryPath names the on-disk entry deterministically from the identity.
func (c *Cache) entryPath(id string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '.':
			return '_'
		}
		return r
	}, id)
	return filepath.Join(c.dir, safe+".json")
}

func (c *Cache) loadDisk(id string) *document.Document {
	if c.dir == "" {
		return nil
	}
	data, err := os.ReadFile(c.entryPath(id))
	if err != nil {
		return nil
	}
	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		c.log.Warn("unreadable cache entry", "id", id, "error", err)
		return nil
	}
	return &doc
}

func (c *Cache) writeDisk(id string, doc *document.Document) {
	if c.dir == "" {
		return
	}
	data, err := json.Marshal(doc)
	if err != nil {
		c.log.Warn("marshal cache entry", "id", id, "error", err)
		return
	}
	if err := os.WriteFile(c.entryPath(id), data, 0o644); err != nil {
		c.log.Warn("write cache entry", "id", id, "error", err)
	}
}
