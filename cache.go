package refdoc

import "time"

// DefaultCacheTTL is the maximum age at which a cache entry is still
// considered valid.
const DefaultCacheTTL = 7 * 24 * time.Hour

// CacheEntry is one cached generation result. Entries are immutable once
// written; expiry is "ignore", not "delete".
type CacheEntry struct {
	Text      string    `json:"text"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"createdAt"`
}

// GenerationCache is a content-addressed store of prior generation results
// keyed by (prompt, model). A racing miss/write on the same key is benign:
// identical content is written either way.
type GenerationCache interface {
	// Get returns the cached text for the pair, or false on a miss.
	// Entries older than the TTL are misses.
	Get(prompt, model string) (string, bool)

	// Put stores the text for the pair, overwriting any prior entry.
	Put(prompt, model, text string) error
}
