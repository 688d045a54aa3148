// Package fs provides file-based storage for cached generation results.
package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/refdoc"
)

// cacheNamespace prefixes every cache key so other consumers of the same
// directory tree cannot collide with generation records.
const cacheNamespace = "refdoc"

// Ensure Cache implements refdoc.GenerationCache at compile time.
var _ refdoc.GenerationCache = (*Cache)(nil)

// Cache stores one JSON record per key on disk. Keys are content-addressed
// over the full (model, prompt) pair, so writes to different keys never
// conflict and a racing miss/write on the same key is a benign overwrite
// of identical content.
type Cache struct {
	root string
	ttl  time.Duration
}

// NewCache creates a Cache rooted at the given directory. A non-positive
// ttl selects refdoc.DefaultCacheTTL.
func NewCache(root string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = refdoc.DefaultCacheTTL
	}
	return &Cache{root: root, ttl: ttl}
}

// Key returns the cache key for a (prompt, model) pair: a sha256 over
// namespace, model and the full prompt. Identical pairs collide; any
// prompt difference changes the key.
func Key(prompt, model string) string {
	h := sha256.Sum256([]byte(cacheNamespace + ":" + model + ":" + prompt))
	return hex.EncodeToString(h[:])
}

// Path returns the record location for a key. The key is self-describing;
// no manifest is kept.
func (c *Cache) Path(key string) string {
	return filepath.Join(c.root, key+".json")
}

// Get returns the cached text for the pair. Absent, unreadable, or expired
// entries are misses. Expired entries are ignored, not deleted.
func (c *Cache) Get(prompt, model string) (string, bool) {
	data, err := os.ReadFile(c.Path(Key(prompt, model)))
	if err != nil {
		return "", false
	}

	var entry refdoc.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return "", false
	}
	if time.Since(entry.CreatedAt) > c.ttl {
		return "", false
	}
	return entry.Text, true
}

// Put stores the text for the pair, overwriting any prior entry.
func (c *Cache) Put(prompt, model, text string) error {
	if err := os.MkdirAll(c.root, 0755); err != nil {
		return err
	}

	entry := refdoc.CacheEntry{
		Text:      text,
		Model:     model,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(c.Path(Key(prompt, model)), data, 0644)
}
