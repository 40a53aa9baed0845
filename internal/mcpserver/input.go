package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oasguard/oasguard/conformance"
	"github.com/oasguard/oasguard/contract"
)

// specInput represents the three ways a contract can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OpenAPI contract file on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an OpenAPI contract from"`
	Content string `json:"content,omitempty" jsonschema:"Inline OpenAPI contract content (JSON or YAML)"`
}

// engine bundles everything derived from one loaded contract: the document,
// the registry built over its templates, and a shared compiled checker.
type engine struct {
	doc      *contract.Document
	registry *conformance.Registry
	checker  *contract.CompiledChecker
}

// validator builds a throwaway validator over the cached engine. Violations
// are returned in tool output, so reporting goes nowhere.
func (e *engine) validator(pathPrefix string) (*conformance.Validator, error) {
	opts := []conformance.Option{
		conformance.WithReporter(func(conformance.ReportContext) {}),
	}
	if pathPrefix != "" {
		opts = append(opts, conformance.WithPathPrefix(pathPrefix))
	}
	return conformance.NewValidator(e.registry, e.checker, opts...)
}

// cacheEntry holds a cached engine with LRU ordering and TTL expiry.
type cacheEntry struct {
	engine    *engine
	insertAt  time.Time
	expiresAt time.Time
}

// engineCacheStore provides a session-scoped cache for loaded contracts.
// File inputs are keyed by (absolutePath, modTime), content inputs by a
// SHA-256 hash, URL inputs by URL string. Expired entries are removed lazily
// on access.
type engineCacheStore struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	maxSize int
}

var engineCache = &engineCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a cached engine or nil. Expired entries are lazily removed.
func (c *engineCacheStore) get(key string) *engine {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		e.insertAt = time.Now()
		return e.engine
	}
	return nil
}

// putWithTTL stores an engine, evicting the oldest entry if at capacity.
func (c *engineCacheStore) putWithTTL(key string, eng *engine, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{engine: eng, insertAt: now, expiresAt: now.Add(ttl)}

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = entry
}

// reset clears all cached entries. Used in tests.
func (c *engineCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

func (c *engineCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// makeCacheKey creates a cache key for the given spec input.
func makeCacheKey(s specInput) string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return fmt.Sprintf("content:%s", hex.EncodeToString(h[:]))
	case s.URL != "":
		return fmt.Sprintf("url:%s", s.URL)
	default:
		return ""
	}
}

// resolve loads the contract from whichever input was provided, using the
// cache for file, URL, and content inputs.
func (s specInput) resolve(ctx context.Context) (*engine, error) {
	count := 0
	if s.File != "" {
		count++
	}
	if s.URL != "" {
		count++
	}
	if s.Content != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}

	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set OASGUARD_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	var key string
	var ttl time.Duration
	if cfg.CacheEnabled {
		key = makeCacheKey(s)
		switch {
		case s.File != "":
			ttl = cfg.CacheFileTTL
		case s.URL != "":
			ttl = cfg.CacheURLTTL
		default:
			ttl = cfg.CacheContentTTL
		}
	}

	if key != "" {
		if cached := engineCache.get(key); cached != nil {
			return cached, nil
		}
	}

	var doc *contract.Document
	var err error
	switch {
	case s.File != "":
		doc, err = contract.LoadFile(ctx, s.File)
	case s.URL != "":
		doc, err = contract.LoadURL(ctx, s.URL)
	case s.Content != "":
		doc, err = contract.LoadBytes(ctx, []byte(s.Content))
	}
	if err != nil {
		return nil, err
	}

	registry, err := conformance.NewRegistry(doc)
	if err != nil {
		return nil, err
	}
	eng := &engine{doc: doc, registry: registry, checker: contract.NewCompiledChecker()}

	if key != "" {
		engineCache.putWithTTL(key, eng, ttl)
	}
	return eng, nil
}
