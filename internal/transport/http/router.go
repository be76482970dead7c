package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"brandreach/internal/campaign/handler"
	"brandreach/internal/gateway"
	"brandreach/pkg/requestcontext"
)

// Pinger reports whether a backing dependency is still reachable.
type Pinger interface {
	Health(ctx context.Context) error
}

// NewRouter wires the full request path: request metadata, the session
// gateway, the locally served campaign routes, and the passthrough proxy for
// everything else (pages and the remaining /api surface). health may be nil
// when no checkable dependency is configured.
func NewRouter(gw *gateway.Gateway, campaigns *handler.Handler, backendProxy http.Handler, health Pinger, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(requestMetadata)
	r.Use(recovery(logger))
	r.Use(gw.Middleware)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if health != nil {
			if err := health.Health(req.Context()); err != nil {
				logger.ErrorContext(req.Context(), "health check failed",
					"error", err,
					"request_id", requestcontext.RequestID(req.Context()),
				)
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("degraded"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	campaigns.Register(r)

	r.NotFound(backendProxy.ServeHTTP)
	return r
}

// requestMetadata stamps every request with a correlation ID, a fixed
// request time, and client metadata so downstream logs and caches agree on
// "now" within one request.
func requestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		ctx = requestcontext.WithTime(ctx, time.Now())
		ctx = requestcontext.WithClientMetadata(ctx, r.RemoteAddr, r.UserAgent())
		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "panic recovered",
						"panic", rec,
						"path", r.URL.Path,
						"request_id", requestcontext.RequestID(r.Context()),
					)
					w.WriteHeader(http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
