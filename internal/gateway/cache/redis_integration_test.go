//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"brandreach/internal/domain"
	"brandreach/internal/gateway/cache"
	"brandreach/pkg/platform/sentinel"
	"brandreach/pkg/testutil/containers"
)

type RedisIdentityCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RedisIdentityCache
}

func TestRedisIdentityCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisIdentityCacheSuite))
}

func (s *RedisIdentityCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.cache = cache.NewRedisIdentityCache(s.redis.Client, 5*time.Second)
}

func (s *RedisIdentityCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisIdentityCacheSuite) TestPutGetRoundTrip() {
	ctx := context.Background()
	identity := &domain.UserIdentity{
		ID:                 "user-1",
		Email:              "brand@example.com",
		Role:               domain.RoleBrand,
		OnboardingComplete: true,
		DisplayName:        "Acme Marketing",
	}

	s.Require().NoError(s.cache.Put(ctx, "access-token-1", identity))

	got, err := s.cache.Get(ctx, "access-token-1")
	s.Require().NoError(err)
	s.Equal(identity.ID, got.ID)
	s.Equal(identity.Email, got.Email)
	s.Equal(identity.Role, got.Role)
	s.True(got.OnboardingComplete)
	s.Equal(identity.DisplayName, got.DisplayName)
}

func (s *RedisIdentityCacheSuite) TestMissReturnsNotFound() {
	_, err := s.cache.Get(context.Background(), "never-stored")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisIdentityCacheSuite) TestInvalidate() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Put(ctx, "access-token-1", &domain.UserIdentity{ID: "user-1"}))

	s.Require().NoError(s.cache.Invalidate(ctx, "access-token-1"))

	_, err := s.cache.Get(ctx, "access-token-1")
	s.ErrorIs(err, sentinel.ErrNotFound)

	// Invalidating an absent token is a no-op.
	s.NoError(s.cache.Invalidate(ctx, "access-token-1"))
}

func (s *RedisIdentityCacheSuite) TestRawTokenNeverStoredAsKey() {
	ctx := context.Background()
	const token = "super-secret-access-token"
	s.Require().NoError(s.cache.Put(ctx, token, &domain.UserIdentity{ID: "user-1"}))

	keys, err := s.redis.Client.Keys(ctx, "*").Result()
	s.Require().NoError(err)
	s.Require().Len(keys, 1)
	s.NotContains(keys[0], token, "keys must be derived from a token hash")
}

func (s *RedisIdentityCacheSuite) TestEntriesExpire() {
	ctx := context.Background()
	shortCache := cache.NewRedisIdentityCache(s.redis.Client, 100*time.Millisecond)
	s.Require().NoError(shortCache.Put(ctx, "access-token-1", &domain.UserIdentity{ID: "user-1"}))

	time.Sleep(200 * time.Millisecond)

	_, err := shortCache.Get(ctx, "access-token-1")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisIdentityCacheSuite) TestDistinctTokensDistinctEntries() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Put(ctx, "token-a", &domain.UserIdentity{ID: "user-a"}))
	s.Require().NoError(s.cache.Put(ctx, "token-b", &domain.UserIdentity{ID: "user-b"}))

	a, err := s.cache.Get(ctx, "token-a")
	s.Require().NoError(err)
	b, err := s.cache.Get(ctx, "token-b")
	s.Require().NoError(err)
	s.Equal("user-a", a.ID)
	s.Equal("user-b", b.ID)
}
