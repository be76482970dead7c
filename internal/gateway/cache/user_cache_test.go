package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandreach/internal/domain"
)

func testIdentity(id string) *domain.UserIdentity {
	return &domain.UserIdentity{ID: id, Email: id + "@example.com", Role: domain.RoleBrand}
}

func TestUserCache_HitWithinTTL(t *testing.T) {
	c := NewUserCache(time.Second, 0)
	now := time.Now()

	c.Put("tok", testIdentity("u1"), now)

	got, ok := c.Get("tok", now.Add(999*time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, "u1", got.ID)
}

func TestUserCache_MissAfterTTL(t *testing.T) {
	c := NewUserCache(time.Second, 0)
	now := time.Now()

	c.Put("tok", testIdentity("u1"), now)

	_, ok := c.Get("tok", now.Add(time.Second))
	assert.False(t, ok, "entry at exactly TTL age must be stale")

	_, ok = c.Get("tok", now.Add(2*time.Second))
	assert.False(t, ok)
}

func TestUserCache_MissUnknownToken(t *testing.T) {
	c := NewUserCache(time.Second, 0)

	_, ok := c.Get("never-stored", time.Now())
	assert.False(t, ok)
}

func TestUserCache_OverwriteResetsClock(t *testing.T) {
	c := NewUserCache(time.Second, 0)
	now := time.Now()

	c.Put("tok", testIdentity("u1"), now)
	c.Put("tok", testIdentity("u2"), now.Add(900*time.Millisecond))

	got, ok := c.Get("tok", now.Add(1500*time.Millisecond))
	require.True(t, ok, "overwrite must restart the TTL window")
	assert.Equal(t, "u2", got.ID)
	assert.Equal(t, 1, c.Len())
}

func TestUserCache_Invalidate(t *testing.T) {
	c := NewUserCache(time.Second, 0)
	now := time.Now()

	c.Put("tok", testIdentity("u1"), now)
	c.Invalidate("tok")

	_, ok := c.Get("tok", now)
	assert.False(t, ok)
	assert.Zero(t, c.Len())

	// Invalidating an absent token is a no-op.
	c.Invalidate("tok")
}

func TestUserCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewUserCache(time.Minute, 3)
	now := time.Now()

	for i := range 3 {
		c.Put(fmt.Sprintf("tok-%d", i), testIdentity(fmt.Sprintf("u%d", i)), now)
	}

	// Touch tok-0 so tok-1 becomes the eviction candidate.
	_, ok := c.Get("tok-0", now)
	require.True(t, ok)

	c.Put("tok-3", testIdentity("u3"), now)

	assert.Equal(t, 3, c.Len())
	_, ok = c.Get("tok-1", now)
	assert.False(t, ok, "least recently used entry must be evicted")
	_, ok = c.Get("tok-0", now)
	assert.True(t, ok)
	_, ok = c.Get("tok-3", now)
	assert.True(t, ok)
}

func TestUserCache_DefaultCap(t *testing.T) {
	c := NewUserCache(time.Second, 0)
	assert.Equal(t, DefaultMaxEntries, c.maxEntries)

	c = NewUserCache(time.Second, -5)
	assert.Equal(t, DefaultMaxEntries, c.maxEntries)
}
