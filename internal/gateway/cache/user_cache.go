// Package cache holds the gateway's short-lived in-process caches. Both caches
// exist to absorb request bursts: a page load fans out into several resource
// fetches that all present the same cookies within a second or two.
package cache

import (
	"container/list"
	"sync"
	"time"

	"brandreach/internal/domain"
)

// DefaultMaxEntries bounds cache growth under heavy token churn. Stale entries
// are only aged out lazily on read, so the cap is what keeps memory flat.
const DefaultMaxEntries = 4096

type userEntry struct {
	token    string
	identity *domain.UserIdentity
	storedAt time.Time
}

// UserCache memoizes access-token -> identity lookups for a short window so a
// burst of parallel requests costs one /auth/me call instead of N.
type UserCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]*list.Element
	order      *list.List // front = most recently used
}

// NewUserCache constructs a user cache. A non-positive maxEntries falls back
// to DefaultMaxEntries.
func NewUserCache(ttl time.Duration, maxEntries int) *UserCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &UserCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

// Get returns the cached identity for the token. A lookup is a hit only while
// the entry is younger than the TTL; older entries are left for overwrite.
func (c *UserCache) Get(token string, now time.Time) (*domain.UserIdentity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[token]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*userEntry)
	if now.Sub(entry.storedAt) >= c.ttl {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return entry.identity, true
}

// Put stores an identity for the token, evicting the least recently used
// entry when the cap is reached.
func (c *UserCache) Put(token string, identity *domain.UserIdentity, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[token]; ok {
		elem.Value = &userEntry{token: token, identity: identity, storedAt: now}
		c.order.MoveToFront(elem)
		return
	}
	c.entries[token] = c.order.PushFront(&userEntry{token: token, identity: identity, storedAt: now})
	for len(c.entries) > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*userEntry).token)
	}
}

// Invalidate deletes the entry for a token. Called eagerly when the backend
// rejects the token so a user whose token just became valid after refresh is
// not locked out by a stale negative.
func (c *UserCache) Invalidate(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[token]; ok {
		c.order.Remove(elem)
		delete(c.entries, token)
	}
}

// Len reports the current number of entries, fresh or stale.
func (c *UserCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
