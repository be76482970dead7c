// Package routes classifies request paths against static route tables and
// turns a classification plus session facts into an allow/redirect decision.
package routes

import "strings"

// Classification buckets a path into exactly one route class.
type Classification string

const (
	ClassStatic      Classification = "static-asset"
	ClassAPIAuth     Classification = "api-auth" // always-allowed API subpaths
	ClassAPI         Classification = "api-passthrough"
	ClassAdminLogin  Classification = "admin-login"
	ClassAdmin       Classification = "admin"
	ClassRoot        Classification = "root"
	ClassPublicAuth  Classification = "public"
	ClassOnboarding  Classification = "onboarding"
	ClassBrandOnly   Classification = "protected-brand-only"
	ClassCreatorOnly Classification = "protected-creator-only"
	ClassShared      Classification = "protected-role-agnostic"
	ClassPassthrough Classification = "passthrough"
)

// Protected reports whether the class requires a session.
func (c Classification) Protected() bool {
	switch c {
	case ClassOnboarding, ClassBrandOnly, ClassCreatorOnly, ClassShared:
		return true
	}
	return false
}

// Well-known paths referenced by the decision table.
const (
	LoginPath         = "/login"
	AdminLoginPath    = "/admin/login"
	OnboardingPath    = "/onboarding"
	RoleSelectPath    = "/onboarding/select-role"
	CreatorOnboarding = "/onboarding/creator"
	CreatorDashboard  = "/creator/dashboard"
	BrandDashboard    = "/brand/dashboard"
)

type matchKind int

const (
	matchExact matchKind = iota
	matchPrefix
)

// rule is one tagged entry of the ordered dispatch table.
type rule struct {
	kind    matchKind
	pattern string
	class   Classification
}

func (r rule) matches(path string) bool {
	switch r.kind {
	case matchExact:
		return path == r.pattern
	case matchPrefix:
		return hasPathPrefix(path, r.pattern)
	}
	return false
}

// hasPathPrefix matches whole path segments, so "/creator" matches
// "/creator/dashboard" but not "/creators".
func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// table is evaluated in order; first match wins. Anything unmatched falls
// through to ClassPassthrough (unauthenticated routes need no identity).
var table = []rule{
	{matchPrefix, "/static", ClassStatic},
	{matchPrefix, "/assets", ClassStatic},
	{matchExact, "/favicon.ico", ClassStatic},
	{matchExact, "/robots.txt", ClassStatic},
	{matchExact, "/healthz", ClassStatic},
	{matchExact, "/metrics", ClassStatic},

	{matchExact, "/api/auth/logout", ClassAPIAuth},
	{matchExact, "/api/auth/me", ClassAPIAuth},
	{matchExact, "/api/auth/complete-onboarding", ClassAPIAuth},
	{matchExact, "/api/creators/complete-onboarding", ClassAPIAuth},
	{matchExact, "/api/profile", ClassAPIAuth},
	{matchPrefix, "/api", ClassAPI},

	{matchExact, AdminLoginPath, ClassAdminLogin},
	{matchPrefix, "/admin", ClassAdmin},

	{matchExact, "/", ClassRoot},

	{matchExact, LoginPath, ClassPublicAuth},
	{matchExact, "/signup", ClassPublicAuth},
	{matchExact, "/auth/callback", ClassPublicAuth},

	{matchPrefix, OnboardingPath, ClassOnboarding},

	{matchPrefix, "/dashboard", ClassShared},
	{matchPrefix, "/campaigns", ClassShared},
	{matchPrefix, "/creators", ClassShared},
	{matchPrefix, "/payments", ClassShared},
	{matchPrefix, "/reports", ClassShared},

	{matchPrefix, "/brand", ClassBrandOnly},
	{matchPrefix, "/creator", ClassCreatorOnly},
}

// Classify returns the route class for a path.
func Classify(path string) Classification {
	for _, r := range table {
		if r.matches(path) {
			return r.class
		}
	}
	return ClassPassthrough
}
