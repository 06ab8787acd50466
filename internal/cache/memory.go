package cache

import (
	"container/list"
	"sync"
)

// memoryCache is the in-memory front of the cache with LRU eviction.
type memoryCache struct {
	capacity int64
	size     int64

	items    map[string]*list.Element
	eviction *list.List

	mu sync.Mutex
}

type memoryEntry struct {
	key   string
	value []byte
}

func newMemoryCache(capacity int64) *memoryCache {
	return &memoryCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
	}
}

func (c *memoryCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.eviction.MoveToFront(elem)
	return elem.Value.(*memoryEntry).value, true
}

func (c *memoryCache) put(key string, value []byte) {
	size := int64(len(value))
	if size > c.capacity {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*memoryEntry)
		c.size += size - int64(len(entry.value))
		entry.value = value
		c.eviction.MoveToFront(elem)
		return
	}

	for c.size+size > c.capacity && c.eviction.Len() > 0 {
		c.evictOldest()
	}

	elem := c.eviction.PushFront(&memoryEntry{key: key, value: value})
	c.items[key] = elem
	c.size += size
}

func (c *memoryCache) delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

func (c *memoryCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.eviction.Init()
	c.size = 0
}

// evictOldest must be called with the lock held.
func (c *memoryCache) evictOldest() {
	if elem := c.eviction.Back(); elem != nil {
		c.removeElement(elem)
	}
}

// removeElement must be called with the lock held.
func (c *memoryCache) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	entry := elem.Value.(*memoryEntry)
	delete(c.items, entry.key)
	c.size -= int64(len(entry.value))
}
