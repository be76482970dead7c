// Package refresh exchanges refresh tokens for new access tokens, collapsing
// the thundering herd that forms when several concurrent requests all discover
// the same expired access token.
package refresh

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"brandreach/internal/domain"
	"brandreach/internal/gateway/cache"
	"brandreach/internal/gateway/identity"
	"brandreach/internal/gateway/tokens"
	"brandreach/internal/gateway/upstream"
	"brandreach/internal/platform/metrics"
	"brandreach/pkg/requestcontext"
)

// Refresher performs the refresh exchange. Two layers of deduplication:
//
//  1. singleflight keyed by refresh token, so callers that arrive while an
//     exchange is in flight wait for it instead of issuing their own;
//  2. a short memo window over completed results, so a burst spread across a
//     couple of seconds still costs one upstream call per distinct token.
//
// Failures are memoized too (as a nil pair) to suppress immediate retries.
type Refresher struct {
	tokens  *tokens.Store
	memo    *cache.RefreshCache
	group   singleflight.Group
	backend upstream.Backend
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs a refresher.
func New(tokenStore *tokens.Store, memo *cache.RefreshCache, backend upstream.Backend, logger *slog.Logger, m *metrics.Metrics) *Refresher {
	return &Refresher{
		tokens:  tokenStore,
		memo:    memo,
		backend: backend,
		logger:  logger,
		metrics: m,
	}
}

// Refresh exchanges the request's refresh token for a new pair. Returns nil
// when no refresh token is present, when the exchange failed, or when a recent
// exchange for the same token failed (memoized negative).
func (r *Refresher) Refresh(req *http.Request) *domain.TokenPair {
	refreshToken := r.tokens.RefreshToken(req)
	if refreshToken == "" {
		return nil
	}
	return r.RefreshToken(req.Context(), refreshToken, req.Cookies())
}

// RefreshToken exchanges a known refresh token.
func (r *Refresher) RefreshToken(ctx context.Context, refreshToken string, cookies []*http.Cookie) *domain.TokenPair {
	now := requestcontext.Now(ctx)

	if pair, ok := r.memo.Get(refreshToken, now); ok {
		r.metrics.CacheHits.WithLabelValues("refresh").Inc()
		return pair
	}
	r.metrics.CacheMisses.WithLabelValues("refresh").Inc()

	result, _, shared := r.group.Do(refreshToken, func() (any, error) {
		// Re-check under the flight: a caller that lost the race to a
		// just-completed exchange finds the memo instead of re-exchanging
		// a rotated (now dead) refresh token.
		if pair, ok := r.memo.Get(refreshToken, now); ok {
			return pair, nil
		}
		return r.exchange(ctx, refreshToken, cookies), nil
	})
	if shared {
		r.metrics.RefreshShared.Inc()
	}
	pair, _ := result.(*domain.TokenPair)
	return pair
}

func (r *Refresher) exchange(ctx context.Context, refreshToken string, cookies []*http.Cookie) *domain.TokenPair {
	r.metrics.RefreshAttempts.Inc()

	// The exchange outlives any single caller: if the originating request is
	// aborted mid-flight, waiters sharing the flight still need the result.
	callCtx := context.WithoutCancel(ctx)

	pair, err := r.backend.Refresh(callCtx, refreshToken, cookies)
	// Stamp at completion, not at the frozen request-start time: a slow
	// round trip must not eat into the suppression window.
	now := time.Now()
	if err != nil {
		r.metrics.RefreshFailures.Inc()
		r.memo.Put(refreshToken, nil, now)
		r.logger.WarnContext(ctx, "token refresh failed",
			"endpoint", "auth/refresh",
			"error", err,
			"token_prefix", identity.TokenPrefix(refreshToken),
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil
	}

	r.memo.Put(refreshToken, pair, now)
	return pair
}
