package preview

import (
	"container/list"
	"sync"

	"gitlab.com/tinyland/lab/teamkit/pkg/terminal"
)

// Key identifies one rendered preview.
type Key struct {
	ID       string
	Protocol terminal.Protocol
	Width    int
	Height   int
}

// Stats reports cache activity.
type Stats struct {
	Hits, Misses, Evictions uint64
	Entries                 int
	SizeBytes               int64
}

type entry struct {
	key      Key
	rendered string
}

// Cache is an LRU of rendered previews bounded by total string size. It is
// safe for concurrent use since renders run inside tea.Cmd goroutines.
type Cache struct {
	mu       sync.Mutex
	items    map[Key]*list.Element
	order    *list.List // front is most recent
	maxBytes int64
	used     int64
	stats    Stats
}

// NewCache returns a cache holding up to maxMB megabytes. maxMB <= 0
// means 16.
func NewCache(maxMB int) *Cache {
	if maxMB <= 0 {
		maxMB = 16
	}
	return &Cache{
		items:    make(map[Key]*list.Element),
		order:    list.New(),
		maxBytes: int64(maxMB) << 20,
	}
}

// Get returns the cached render for k.
func (c *Cache) Get(k Key) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[k]
	if !ok {
		c.stats.Misses++
		return "", false
	}
	c.order.MoveToFront(el)
	c.stats.Hits++
	return el.Value.(*entry).rendered, true
}

// Put stores rendered under k, evicting least recently used entries.
func (c *Cache) Put(k Key, rendered string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[k]; ok {
		e := el.Value.(*entry)
		c.used += int64(len(rendered) - len(e.rendered))
		e.rendered = rendered
		c.order.MoveToFront(el)
	} else {
		c.items[k] = c.order.PushFront(&entry{key: k, rendered: rendered})
		c.used += int64(len(rendered))
	}
	for c.used > c.maxBytes && c.order.Len() > 1 {
		back := c.order.Back()
		e := c.order.Remove(back).(*entry)
		delete(c.items, e.key)
		c.used -= int64(len(e.rendered))
		c.stats.Evictions++
	}
}

// Forget drops every entry for id, at any size.
func (c *Cache) Forget(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, el := range c.items {
		if k.ID != id {
			continue
		}
		c.used -= int64(len(el.Value.(*entry).rendered))
		c.order.Remove(el)
		delete(c.items, k)
	}
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = c.order.Len()
	s.SizeBytes = c.used
	return s
}
