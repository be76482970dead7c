package cache

import (
	"container/list"
	"sync"
	"time"

	"brandreach/internal/domain"
)

type refreshEntry struct {
	token    string
	pair     *domain.TokenPair // nil means "recently failed, don't retry"
	storedAt time.Time
}

// RefreshCache memoizes completed refresh exchanges keyed by the old refresh
// token. The window is longer than the user cache's because refresh
// round-trips are slower and contention around token expiry is more likely.
// A nil pair is cached deliberately: it suppresses immediate retries after a
// failed exchange.
type RefreshCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]*list.Element
	order      *list.List
}

// NewRefreshCache constructs a refresh result cache.
func NewRefreshCache(ttl time.Duration, maxEntries int) *RefreshCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &RefreshCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

// Get returns the memoized exchange result for a refresh token. The second
// return distinguishes "no entry in the window" from a cached failure.
func (c *RefreshCache) Get(refreshToken string, now time.Time) (*domain.TokenPair, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[refreshToken]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*refreshEntry)
	if now.Sub(entry.storedAt) >= c.ttl {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return entry.pair, true
}

// Put memoizes an exchange result. pair may be nil to record a failure.
func (c *RefreshCache) Put(refreshToken string, pair *domain.TokenPair, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[refreshToken]; ok {
		elem.Value = &refreshEntry{token: refreshToken, pair: pair, storedAt: now}
		c.order.MoveToFront(elem)
		return
	}
	c.entries[refreshToken] = c.order.PushFront(&refreshEntry{token: refreshToken, pair: pair, storedAt: now})
	for len(c.entries) > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*refreshEntry).token)
	}
}

// Len reports the current number of entries, fresh or stale.
func (c *RefreshCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
