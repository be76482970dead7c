package tokens

import (
	"net/http"
	"strings"
	"time"
)

// Cookie names and lifetimes. The access token mirrors the backend's 15 minute
// token lifetime; the refresh token lives for 7 days.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
	AdminCookie   = "admin_token"

	AccessHeader = "x-access-token"

	AccessMaxAge  = 900 * time.Second
	RefreshMaxAge = 7 * 24 * time.Hour
)

// Store reads and writes the session's bearer tokens on the request's cookie
// jar. Pure data access: absence of a token is an empty string, never an error.
type Store struct {
	secure bool
	domain string
}

// New constructs a token store. secure toggles the cookie Secure flag and is
// on in production.
func New(secure bool, cookieDomain string) *Store {
	return &Store{secure: secure, domain: cookieDomain}
}

// AccessToken extracts the access token from the request. The custom header
// wins (set when an upstream hop already resolved the token), then the cookie,
// then a plain Authorization bearer header.
func (s *Store) AccessToken(r *http.Request) string {
	if token := r.Header.Get(AccessHeader); token != "" {
		return token
	}
	if c, err := r.Cookie(AccessCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return after
	}
	return ""
}

// RefreshToken extracts the refresh token cookie, if any.
func (s *Store) RefreshToken(r *http.Request) string {
	if c, err := r.Cookie(RefreshCookie); err == nil {
		return c.Value
	}
	return ""
}

// AdminToken extracts the separate admin console token cookie, if any.
func (s *Store) AdminToken(r *http.Request) string {
	if c, err := r.Cookie(AdminCookie); err == nil {
		return c.Value
	}
	return ""
}

// SetTokens writes the access token cookie and, when the backend rotated it,
// the refresh token cookie onto the outgoing response.
func (s *Store) SetTokens(w http.ResponseWriter, accessToken, refreshToken string) {
	if accessToken != "" {
		http.SetCookie(w, s.cookie(AccessCookie, accessToken, AccessMaxAge))
	}
	if refreshToken != "" {
		http.SetCookie(w, s.cookie(RefreshCookie, refreshToken, RefreshMaxAge))
	}
}

// ClearTokens expires both session cookies.
func (s *Store) ClearTokens(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie(AccessCookie, "", -time.Second))
	http.SetCookie(w, s.cookie(RefreshCookie, "", -time.Second))
}

func (s *Store) cookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.domain,
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
