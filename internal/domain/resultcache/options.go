package resultcache

// Option applies a configuration option to the cache.
type Option func(*lruCache)

// WithMaxSize sets the maximum number of cached maps. Values <= 0 are rejected by New.
func WithMaxSize(maxSize int) Option {
	return func(c *lruCache) {
		c.maxSize = maxSize
	}
}
