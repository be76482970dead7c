// Package session orchestrates identity resolution and token refresh to
// guarantee that a valid access token is available for a request, or to report
// definitively that there is none.
package session

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"brandreach/internal/domain"
	"brandreach/internal/gateway/identity"
	"brandreach/internal/gateway/refresh"
	"brandreach/internal/gateway/tokens"
	"brandreach/pkg/requestcontext"
)

// State names every stop of the per-request token state machine so each branch
// is enumerable and testable in isolation.
type State string

const (
	StateNoToken       State = "no_token"
	StateTokenValid    State = "token_valid"
	StateRefreshing    State = "token_invalid_refreshing"
	StateRefreshed     State = "refreshed"
	StateRefreshFailed State = "refresh_failed"
)

// Result is the outcome of EnsureValidToken. The gate never writes cookies;
// the caller persists RefreshToken/AccessToken through the token store when
// State is StateRefreshed.
type Result struct {
	State        State
	AccessToken  string
	RefreshToken string // set only when the backend rotated it
	// Identity is populated when the gate already resolved it while probing
	// token validity. Nil does not mean "invalid": after a refresh the caller
	// resolves the new token itself (the user cache makes that lookup cheap).
	Identity *domain.UserIdentity
}

// Authenticated reports whether the gate ended with a usable access token.
func (r Result) Authenticated() bool {
	return r.State == StateTokenValid || r.State == StateRefreshed
}

// Gate is the session state machine.
type Gate struct {
	tokens    *tokens.Store
	resolver  *identity.Resolver
	refresher *refresh.Refresher
	logger    *slog.Logger
}

// New constructs a gate.
func New(tokenStore *tokens.Store, resolver *identity.Resolver, refresher *refresh.Refresher, logger *slog.Logger) *Gate {
	return &Gate{tokens: tokenStore, resolver: resolver, refresher: refresher, logger: logger}
}

// EnsureValidToken walks the state machine for one request:
//
//	access token present and accepted   -> StateTokenValid (token unchanged)
//	absent/rejected, refresh succeeds   -> StateRefreshed (new pair returned)
//	absent/rejected, no refresh token   -> StateRefreshFailed
//	absent/rejected, refresh rejected   -> StateRefreshFailed
//
// Idempotent and side-effect-free regarding cookies: calling it twice in
// succession with the same cookies hits the caches the second time.
func (g *Gate) EnsureValidToken(req *http.Request) Result {
	ctx := req.Context()
	access := g.tokens.AccessToken(req)

	state := StateNoToken
	if access != "" {
		state = StateRefreshing
		// Skip the doomed /auth/me probe when the token is a JWT that is
		// already expired by its own exp claim. Opaque tokens fall through
		// to the probe unchanged.
		if !expiredByClaim(access, requestcontext.Now(ctx)) {
			if resolved := g.resolver.ResolveToken(ctx, access, req.Cookies()); resolved != nil {
				return Result{State: StateTokenValid, AccessToken: access, Identity: resolved}
			}
		}
	}

	refreshToken := g.tokens.RefreshToken(req)
	if refreshToken == "" {
		g.logger.DebugContext(ctx, "session gate: no refresh token",
			"state", string(state),
			"request_id", requestcontext.RequestID(ctx),
		)
		return Result{State: StateRefreshFailed}
	}

	pair := g.refresher.Refresh(req)
	if pair == nil {
		return Result{State: StateRefreshFailed}
	}
	return Result{
		State:        StateRefreshed,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}

// expiredByClaim parses the token without verifying its signature and reports
// whether its exp claim has passed. Verification belongs to the backend; this
// is only a cheap local filter. Any parse failure means "not known expired".
func expiredByClaim(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
