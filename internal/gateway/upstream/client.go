// Package upstream talks to the external identity/platform backend. The
// gateway never mints tokens itself; it forwards them here and the backend is
// the source of truth for their validity.
package upstream

//go:generate mockgen -source=client.go -destination=mocks/mocks.go -package=mocks Backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"brandreach/internal/domain"
	"brandreach/internal/platform/metrics"
	"brandreach/pkg/platform/sentinel"
)

// Backend is the identity backend contract consumed by the gateway.
type Backend interface {
	// Me resolves the identity behind an access token. The original cookie
	// jar is forwarded so the backend sees the same session context.
	Me(ctx context.Context, accessToken string, cookies []*http.Cookie) (*domain.UserIdentity, error)
	// Refresh exchanges a refresh token for a new access/refresh pair.
	Refresh(ctx context.Context, refreshToken string, cookies []*http.Cookie) (*domain.TokenPair, error)
}

// Client is the HTTP implementation of Backend.
type Client struct {
	baseURL string
	http    *http.Client
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// New constructs an upstream client. httpClient may be nil, in which case a
// client with a 10s timeout is used so a hung backend cannot stall the gate
// past the platform's own request deadline.
func New(baseURL string, httpClient *http.Client, m *metrics.Metrics) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		metrics: m,
		tracer:  otel.Tracer("brandreach/upstream"),
	}
}

// Me calls GET /auth/me with the bearer token.
func (c *Client) Me(ctx context.Context, accessToken string, cookies []*http.Cookie) (*domain.UserIdentity, error) {
	ctx, span := c.tracer.Start(ctx, "auth.me")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("build me request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Cache-Control", "no-store")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if c.metrics != nil {
		c.metrics.ObserveUpstream("auth.me", time.Since(start))
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("call auth/me: %w", sentinel.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// Token accepted but no profile behind it. Distinct from a rejected
		// token so callers can log and audit it separately.
		return nil, fmt.Errorf("auth/me returned 404: %w", sentinel.ErrProfileNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("auth/me returned %d: %w", resp.StatusCode, sentinel.ErrInvalidToken)
	}

	var identity domain.UserIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("decode auth/me response: %w", sentinel.ErrUpstreamUnavailable)
	}
	return &identity, nil
}

// Refresh calls POST /auth/refresh with the refresh token in the body.
func (c *Client) Refresh(ctx context.Context, refreshToken string, cookies []*http.Cookie) (*domain.TokenPair, error) {
	ctx, span := c.tracer.Start(ctx, "auth.refresh")
	defer span.End()

	body, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return nil, fmt.Errorf("marshal refresh request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if c.metrics != nil {
		c.metrics.ObserveUpstream("auth.refresh", time.Since(start))
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("call auth/refresh: %w", sentinel.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("auth/refresh returned %d: %w", resp.StatusCode, sentinel.ErrRefreshFailed)
	}

	var pair domain.TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return nil, fmt.Errorf("decode auth/refresh response: %w", sentinel.ErrUpstreamUnavailable)
	}
	if pair.AccessToken == "" {
		return nil, fmt.Errorf("auth/refresh returned empty access token: %w", sentinel.ErrRefreshFailed)
	}
	return &pair, nil
}
