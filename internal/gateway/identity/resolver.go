// Package identity resolves the user behind an access token, consulting the
// short-lived caches before the identity backend.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"brandreach/internal/domain"
	"brandreach/internal/gateway/cache"
	"brandreach/internal/gateway/tokens"
	"brandreach/internal/gateway/upstream"
	"brandreach/internal/platform/metrics"
	"brandreach/pkg/platform/sentinel"
	"brandreach/pkg/requestcontext"
)

// Resolver produces a validated user identity or nil. It never returns an
// error to callers: every failure is logged and degrades to "no identity" so
// the gateway fails closed.
type Resolver struct {
	tokens  *tokens.Store
	cache   *cache.UserCache
	shared  *cache.RedisIdentityCache // optional L2, nil when redis is not configured
	backend upstream.Backend
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs a resolver. shared may be nil.
func New(tokenStore *tokens.Store, userCache *cache.UserCache, shared *cache.RedisIdentityCache, backend upstream.Backend, logger *slog.Logger, m *metrics.Metrics) *Resolver {
	return &Resolver{
		tokens:  tokenStore,
		cache:   userCache,
		shared:  shared,
		backend: backend,
		logger:  logger,
		metrics: m,
	}
}

// Resolve extracts the access token from the request and resolves it. Returns
// nil without a network call when no token is present.
func (r *Resolver) Resolve(req *http.Request) *domain.UserIdentity {
	token := r.tokens.AccessToken(req)
	if token == "" {
		return nil
	}
	return r.ResolveToken(req.Context(), token, req.Cookies())
}

// ResolveToken resolves a known access token, forwarding the original cookie
// jar so the backend sees the same session context.
func (r *Resolver) ResolveToken(ctx context.Context, token string, cookies []*http.Cookie) *domain.UserIdentity {
	now := requestcontext.Now(ctx)

	if identity, ok := r.cache.Get(token, now); ok {
		r.metrics.CacheHits.WithLabelValues("user").Inc()
		return identity
	}
	r.metrics.CacheMisses.WithLabelValues("user").Inc()

	if r.shared != nil {
		identity, err := r.shared.Get(ctx, token)
		if err == nil {
			r.cache.Put(token, identity, now)
			return identity
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			r.logger.WarnContext(ctx, "shared identity cache unavailable",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}

	identity, err := r.backend.Me(ctx, token, cookies)
	if err != nil {
		// Do not cache negatives: the same token may become valid right
		// after a refresh lands. Drop any stale entry instead.
		r.cache.Invalidate(token)
		if r.shared != nil {
			if delErr := r.shared.Invalidate(ctx, token); delErr != nil {
				r.logger.WarnContext(ctx, "shared identity cache invalidate failed", "error", delErr)
			}
		}
		r.logIdentityFailure(ctx, token, err)
		return nil
	}

	r.cache.Put(token, identity, now)
	if r.shared != nil {
		if putErr := r.shared.Put(ctx, token, identity); putErr != nil {
			r.logger.WarnContext(ctx, "shared identity cache put failed", "error", putErr)
		}
	}
	return identity
}

// Invalidate drops any cached identity for the token.
func (r *Resolver) Invalidate(ctx context.Context, token string) {
	r.cache.Invalidate(token)
	if r.shared != nil {
		if err := r.shared.Invalidate(ctx, token); err != nil {
			r.logger.WarnContext(ctx, "shared identity cache invalidate failed", "error", err)
		}
	}
}

func (r *Resolver) logIdentityFailure(ctx context.Context, token string, err error) {
	requestID := requestcontext.RequestID(ctx)
	switch {
	case errors.Is(err, sentinel.ErrProfileNotFound):
		// Authenticated but no profile behind the token; logged apart from a
		// rejected token so support can spot half-provisioned accounts.
		r.logger.WarnContext(ctx, "identity resolution: profile not found",
			"endpoint", "auth/me",
			"token_prefix", TokenPrefix(token),
			"request_id", requestID,
		)
	case errors.Is(err, sentinel.ErrUpstreamUnavailable):
		r.logger.ErrorContext(ctx, "identity backend unavailable",
			"endpoint", "auth/me",
			"error", err,
			"request_id", requestID,
		)
	default:
		r.logger.DebugContext(ctx, "identity resolution: token rejected",
			"endpoint", "auth/me",
			"token_prefix", TokenPrefix(token),
			"request_id", requestID,
		)
	}
}

// TokenPrefix returns a short, log-safe prefix of a token. Never log the full
// value.
func TokenPrefix(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8]
}
