package spacex

import (
	"context"
	"sync"

	"github.com/couchcryptid/launch-data-etl/internal/observability"
)

// CachedLookup wraps a Lookup with one in-memory LRU cache per resource so
// each id is requested at most once while it stays resident.
type CachedLookup struct {
	inner      Lookup
	metrics    *observability.Metrics
	rockets    *lruCache[Rocket]
	payloads   *lruCache[Payload]
	launchpads *lruCache[Launchpad]
}

// NewCachedLookup creates a cache decorator around a Lookup.
func NewCachedLookup(inner Lookup, maxEntries int, metrics *observability.Metrics) *CachedLookup {
	return &CachedLookup{
		inner:      inner,
		metrics:    metrics,
		rockets:    newLRUCache[Rocket](maxEntries),
		payloads:   newLRUCache[Payload](maxEntries),
		launchpads: newLRUCache[Launchpad](maxEntries),
	}
}

func (c *CachedLookup) Rocket(ctx context.Context, id string) (Rocket, error) {
	return cached(ctx, c, resourceRockets, c.rockets, id, c.inner.Rocket)
}

func (c *CachedLookup) Payload(ctx context.Context, id string) (Payload, error) {
	return cached(ctx, c, resourcePayloads, c.payloads, id, c.inner.Payload)
}

func (c *CachedLookup) Launchpad(ctx context.Context, id string) (Launchpad, error) {
	return cached(ctx, c, resourceLaunchpads, c.launchpads, id, c.inner.Launchpad)
}

// cached serves id from cache or fetches it. Errors are not cached.
func cached[V any](ctx context.Context, c *CachedLookup, resource string, cache *lruCache[V], id string,
	fetch func(context.Context, string) (V, error),
) (V, error) {
	if v, ok := cache.get(id); ok {
		c.metrics.APICache.WithLabelValues(resource, "hit").Inc()
		return v, nil
	}
	c.metrics.APICache.WithLabelValues(resource, "miss").Inc()
	v, err := fetch(ctx, id)
	if err != nil {
		return v, err
	}
	cache.put(id, v)
	return v, nil
}

// lruCache is a simple thread-safe LRU cache.
type lruCache[V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key   string
	value V
	prev  *entry[V]
	next  *entry[V]
}

func newLRUCache[V any](maxEntries int) *lruCache[V] {
	return &lruCache[V]{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[V]) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[V]) addToFront(e *entry[V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[V]) remove(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
