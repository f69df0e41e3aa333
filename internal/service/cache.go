package service

import (
	"container/list"
	"sync"

	"github.com/couchcryptid/aqi-surface/internal/domain"
)

// gridCache holds the grids built from the current snapshot, evicting the
// least recently used one when full. Grids only ever belong to one snapshot:
// moving the cache to a new snapshot drops everything, and a build that
// finishes after its snapshot was replaced is not stored.
type gridCache struct {
	maxEntries int

	mu         sync.Mutex
	snapshotID string
	order      *list.List // of *cachedGrid, most recently used first
	grids      map[domain.GridParams]*list.Element
}

type cachedGrid struct {
	params domain.GridParams
	result *domain.GridResult
}

func newGridCache(maxEntries int) *gridCache {
	return &gridCache{
		maxEntries: max(maxEntries, 1),
		order:      list.New(),
		grids:      make(map[domain.GridParams]*list.Element),
	}
}

// reset moves the cache to snapshotID and reports how many grids of the
// previous snapshot were dropped.
func (c *gridCache) reset(snapshotID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if snapshotID == c.snapshotID {
		return 0
	}
	dropped := c.order.Len()
	c.snapshotID = snapshotID
	c.order.Init()
	clear(c.grids)
	return dropped
}

func (c *gridCache) get(snapshotID string, p domain.GridParams) (*domain.GridResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if snapshotID != c.snapshotID {
		return nil, false
	}
	el, ok := c.grids[p]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cachedGrid).result, true
}

// put stores r for p and reports whether it was kept. A grid of any
// snapshot other than the current one is discarded.
func (c *gridCache) put(snapshotID string, p domain.GridParams, r *domain.GridResult) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if snapshotID != c.snapshotID {
		return false
	}
	if el, ok := c.grids[p]; ok {
		el.Value.(*cachedGrid).result = r
		c.order.MoveToFront(el)
		return true
	}

	c.grids[p] = c.order.PushFront(&cachedGrid{params: p, result: r})
	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.grids, oldest.Value.(*cachedGrid).params)
	}
	return true
}

func (c *gridCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
