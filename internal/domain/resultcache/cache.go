// Package resultcache memoizes built style maps by input fingerprint.
package resultcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okian/stylemap/internal/domain/stylemap"
	"github.com/okian/stylemap/pkg/metrics"
)

const defaultMaxSize = 1024

// Cache stores built maps keyed by Fingerprint. Cached results are shared
// between callers and must be treated as read-only.
type Cache interface {
	Get(key string) (*stylemap.MapResult, bool)
	Add(key string, res *stylemap.MapResult)
	Len() int
	Purge()
}

type lruCache struct {
	maxSize int
	entries *lru.Cache[string, *stylemap.MapResult]
}

// New creates a bounded LRU cache.
func New(opts ...Option) (Cache, error) {
	c := &lruCache{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(c)
	}
	entries, err := lru.New[string, *stylemap.MapResult](c.maxSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}
	c.entries = entries
	return c, nil
}

func (c *lruCache) Get(key string) (*stylemap.MapResult, bool) {
	res, ok := c.entries.Get(key)
	if ok {
		metrics.RecordCacheHit()
	} else {
		metrics.RecordCacheMiss()
	}
	return res, ok
}

func (c *lruCache) Add(key string, res *stylemap.MapResult) {
	if res == nil {
		return
	}
	c.entries.Add(key, res)
	metrics.UpdateCacheSize(c.entries.Len())
}

func (c *lruCache) Len() int { return c.entries.Len() }

func (c *lruCache) Purge() {
	c.entries.Purge()
	metrics.UpdateCacheSize(0)
}

type fingerprintInput struct {
	Settings stylemap.Settings `json:"settings"`
	Records  []stylemap.Record `json:"records"`
}

// Fingerprint derives a cache key from the ordered records and the engine
// settings. Record order matters because it drives layout and clustering.
func Fingerprint(records []stylemap.Record, settings stylemap.Settings) (string, error) {
	b, err := json.Marshal(fingerprintInput{Settings: settings, Records: records})
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
