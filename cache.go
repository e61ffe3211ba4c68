package mentions

import (
	"container/list"
	"sync"
)

// snapshotCache is a small LRU of analyzed markup values keyed by the
// markup string. A nil cache stores nothing.
type snapshotCache struct {
	mu    sync.Mutex
	max   int
	order *list.List
	items map[string]*list.Element
}

type cacheEntry struct {
	key  string
	snap *snapshot
}

func newSnapshotCache(max int) *snapshotCache {
	if max <= 0 {
		return nil
	}
	return &snapshotCache{
		max:   max,
		order: list.New(),
		items: make(map[string]*list.Element, max),
	}
}

func (c *snapshotCache) get(key string) (*snapshot, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).snap, true
}

func (c *snapshotCache) put(key string, snap *snapshot) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).snap = snap
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(&cacheEntry{key: key, snap: snap})
	for c.order.Len() > c.max {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
	}
}

func (c *snapshotCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
