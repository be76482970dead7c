// Package gateway wires route classification, the session gate, and the
// authorizer into the middleware that fronts every request.
package gateway

import (
	"log/slog"
	"net/http"

	"brandreach/internal/audit"
	"brandreach/internal/device"
	"brandreach/internal/domain"
	"brandreach/internal/gateway/admin"
	"brandreach/internal/gateway/identity"
	"brandreach/internal/gateway/routes"
	"brandreach/internal/gateway/session"
	"brandreach/internal/gateway/tokens"
	"brandreach/internal/platform/metrics"
	"brandreach/pkg/requestcontext"
)

// Gateway is the auth middleware. Classification and cache lookups are
// synchronous; the only suspension points are the identity backend calls made
// by the gate and resolver.
type Gateway struct {
	tokens   *tokens.Store
	gate     *session.Gate
	resolver *identity.Resolver
	admin    *admin.Verifier
	audit    *audit.Publisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New constructs the gateway middleware.
func New(
	tokenStore *tokens.Store,
	gate *session.Gate,
	resolver *identity.Resolver,
	adminVerifier *admin.Verifier,
	auditPublisher *audit.Publisher,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Gateway {
	return &Gateway{
		tokens:   tokenStore,
		gate:     gate,
		resolver: resolver,
		admin:    adminVerifier,
		audit:    auditPublisher,
		logger:   logger,
		metrics:  m,
	}
}

// Middleware classifies the path, runs the session gate where a session
// matters, applies the decision table, and either injects auth headers and
// passes through or redirects.
func (g *Gateway) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		path := r.URL.Path
		class := routes.Classify(path)

		// The resolved-token header is set by this middleware alone; an
		// inbound copy is client-forged. Drop it before anything reads it so
		// downstream handlers only ever see gateway-set values.
		r.Header.Del(tokens.AccessHeader)

		if class == routes.ClassStatic || class == routes.ClassAdminLogin {
			g.metrics.GateDecisions.WithLabelValues("passthrough").Inc()
			next.ServeHTTP(w, r)
			return
		}

		sess := routes.Session{
			HasToken: g.tokens.AccessToken(r) != "" || g.tokens.RefreshToken(r) != "",
		}
		var access string

		switch class {
		case routes.ClassAdmin:
			sess.AdminValid = g.admin.Verify(g.tokens.AdminToken(r))
			access = g.tokens.AccessToken(r)
			if !sess.AdminValid {
				g.emit(r, audit.Event{Action: audit.ActionAdminDenied, Path: path})
			}

		case routes.ClassAPIAuth, routes.ClassAPI, routes.ClassPassthrough:
			// Downstream handlers do their own auth; run the gate so an
			// expired-but-refreshable token still goes out valid.
			access = g.runGate(w, r, &sess)

		default:
			access = g.runGate(w, r, &sess)
			if sess.HasToken {
				if sess.Identity == nil && access != "" {
					sess.Identity = g.resolver.ResolveToken(ctx, access, r.Cookies())
				}
			}
		}

		decision := routes.Authorize(path, class, sess)
		switch decision.Kind {
		case routes.Redirect:
			g.auditRedirect(r, class, sess, decision)
			g.metrics.GateDecisions.WithLabelValues("redirect").Inc()
			http.Redirect(w, r, decision.Location, http.StatusTemporaryRedirect)
			return

		case routes.AllowWithToken:
			if access != "" {
				r.Header.Set(tokens.AccessHeader, access)
				r.Header.Set("Authorization", "Bearer "+access)
			} else {
				// The gate produced nothing; a credential it rejected must
				// not ride through to handlers.
				r.Header.Del("Authorization")
			}
			if sess.Identity != nil {
				ctx = requestcontext.WithIdentity(ctx, sess.Identity)
			}
			g.metrics.GateDecisions.WithLabelValues("allow").Inc()
			next.ServeHTTP(w, r.WithContext(ctx))

		default:
			g.metrics.GateDecisions.WithLabelValues("allow").Inc()
			next.ServeHTTP(w, r)
		}
	})
}

// runGate ensures a valid access token, persisting rotated tokens onto the
// outgoing response. The cookie write happens here, before any redirect, so a
// successful refresh survives even when the request itself bounces.
func (g *Gateway) runGate(w http.ResponseWriter, r *http.Request, sess *routes.Session) string {
	res := g.gate.EnsureValidToken(r)
	switch res.State {
	case session.StateRefreshed:
		g.tokens.SetTokens(w, res.AccessToken, res.RefreshToken)
		g.emit(r, audit.Event{
			Action:      audit.ActionTokenRefreshed,
			Path:        r.URL.Path,
			TokenPrefix: identity.TokenPrefix(res.AccessToken),
		})
	case session.StateRefreshFailed:
		if g.tokens.RefreshToken(r) != "" {
			g.emit(r, audit.Event{
				Action: audit.ActionRefreshFailed,
				Path:   r.URL.Path,
			})
		}
	}
	sess.Identity = res.Identity
	return res.AccessToken
}

func (g *Gateway) auditRedirect(r *http.Request, class routes.Classification, sess routes.Session, decision routes.Decision) {
	event := audit.Event{
		Path:       r.URL.Path,
		RedirectTo: decision.Location,
	}
	switch {
	case class == routes.ClassAdmin:
		return // already emitted on verification failure
	case sess.Identity == nil:
		event.Action = audit.ActionLoginRedirect
	case (class == routes.ClassBrandOnly && sess.Identity.Role != domain.RoleBrand) ||
		(class == routes.ClassCreatorOnly && sess.Identity.Role != domain.RoleCreator):
		event.Action = audit.ActionRoleMismatch
		event.UserID = sess.Identity.ID
		event.Role = string(sess.Identity.Role)
	default:
		// Onboarding and post-auth convenience redirects are routine; not
		// audit-worthy.
		return
	}
	g.emit(r, event)
}

func (g *Gateway) emit(r *http.Request, event audit.Event) {
	ctx := r.Context()
	event.RequestID = requestcontext.RequestID(ctx)
	event.Device = device.ParseUserAgent(r.UserAgent())
	event.ClientIP = r.RemoteAddr
	g.audit.Emit(ctx, event)
}
