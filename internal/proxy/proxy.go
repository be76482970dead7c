// Package proxy forwards requests the gateway does not serve itself to the
// upstream platform backend. By the time a request lands here the gateway
// middleware has already injected the resolved auth headers.
package proxy

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"brandreach/pkg/requestcontext"
)

// New builds the passthrough reverse proxy for the upstream base URL.
func New(upstreamBaseURL string, logger *slog.Logger) (http.Handler, error) {
	target, err := url.Parse(upstreamBaseURL)
	if err != nil {
		return nil, err
	}

	rp := httputil.NewSingleHostReverseProxy(target)
	rp.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.ErrorContext(r.Context(), "upstream proxy error",
			"error", err,
			"path", r.URL.Path,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream unavailable"}`))
	}
	return rp, nil
}
