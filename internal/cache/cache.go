package cache

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

// ErrItemTooLarge is returned when a payload exceeds the cache capacity.
var ErrItemTooLarge = errors.New("item too large for cache")

// Defaults sized for chapter-length PCM at 24 kHz.
const (
	DefaultMemoryCapacity = 100 << 20 // 100 MB
	DefaultDiskCapacity   = 2 << 30   // 2 GB
	DefaultTTL            = 7 * 24 * time.Hour
)

// Options configures a Cache. Zero values take the defaults above.
type Options struct {
	Dir            string
	MemoryCapacity int64
	DiskCapacity   int64
	TTL            time.Duration
}

// Cache is a two-level audio cache: an in-memory LRU front backed by a
// persistent on-disk store. Disk hits are promoted to memory.
type Cache struct {
	memory *memoryCache
	disk   *diskStore
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits     int64
	Misses   int64
	DiskSize int64
}

// DefaultDir returns the per-user audio cache directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "audiblez", "audio"), nil
}

// New opens a cache rooted at opts.Dir, expiring disk entries past the TTL.
func New(opts Options) (*Cache, error) {
	if opts.Dir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		opts.Dir = dir
	}
	if opts.MemoryCapacity == 0 {
		opts.MemoryCapacity = DefaultMemoryCapacity
	}
	if opts.DiskCapacity == 0 {
		opts.DiskCapacity = DefaultDiskCapacity
	}
	if opts.TTL == 0 {
		opts.TTL = DefaultTTL
	}

	disk, err := newDiskStore(opts.Dir, opts.DiskCapacity)
	if err != nil {
		return nil, err
	}
	disk.removeOlderThan(time.Now().Add(-opts.TTL))

	return &Cache{
		memory: newMemoryCache(opts.MemoryCapacity),
		disk:   disk,
		ttl:    opts.TTL,
	}, nil
}

// Get returns the cached audio for key, if present.
func (c *Cache) Get(key string) ([]byte, bool) {
	if data, ok := c.memory.get(key); ok {
		c.hits.Add(1)
		return data, true
	}
	if data, ok := c.disk.get(key); ok {
		c.hits.Add(1)
		c.memory.put(key, data)
		return data, true
	}
	c.misses.Add(1)
	return nil, false
}

// Put stores audio under key in both levels.
func (c *Cache) Put(key string, value []byte) error {
	c.memory.put(key, value)
	return c.disk.put(key, value)
}

// Delete removes key from both levels.
func (c *Cache) Delete(key string) {
	c.memory.delete(key)
	c.disk.delete(key)
}

// Clear empties the cache.
func (c *Cache) Clear() error {
	c.memory.clear()
	return c.disk.clear()
}

// Stats returns hit counters and the on-disk footprint.
func (c *Cache) Stats() Stats {
	c.disk.mu.Lock()
	diskSize := c.disk.size
	c.disk.mu.Unlock()

	return Stats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		DiskSize: diskSize,
	}
}

// Close persists the disk index.
func (c *Cache) Close() error {
	return c.disk.close()
}
