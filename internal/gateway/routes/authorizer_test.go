package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"brandreach/internal/domain"
)

func brandUser(onboarded bool) *domain.UserIdentity {
	return &domain.UserIdentity{ID: "brand-1", Role: domain.RoleBrand, OnboardingComplete: onboarded}
}

func creatorUser(onboarded bool) *domain.UserIdentity {
	return &domain.UserIdentity{ID: "creator-1", Role: domain.RoleCreator, OnboardingComplete: onboarded}
}

func withIdentity(user *domain.UserIdentity) Session {
	return Session{HasToken: true, Identity: user}
}

func anonymous() Session {
	return Session{}
}

func TestAuthorize_StaticAndAdminLoginAlwaysPass(t *testing.T) {
	for _, class := range []Classification{ClassStatic, ClassAdminLogin} {
		d := Authorize("/whatever", class, anonymous())
		assert.Equal(t, Allow, d.Kind, "%s", class)
	}
}

func TestAuthorize_APIPassesThroughWithToken(t *testing.T) {
	for _, class := range []Classification{ClassAPIAuth, ClassAPI, ClassPassthrough} {
		// Even anonymous requests pass; downstream handlers do their own auth.
		d := Authorize("/api/anything", class, anonymous())
		assert.Equal(t, AllowWithToken, d.Kind, "%s", class)
	}
}

func TestAuthorize_Admin(t *testing.T) {
	d := Authorize("/admin/users", ClassAdmin, Session{})
	assert.Equal(t, Redirect, d.Kind)
	assert.Equal(t, AdminLoginPath, d.Location)

	d = Authorize("/admin/users", ClassAdmin, Session{AdminValid: true})
	assert.Equal(t, AllowWithToken, d.Kind)
}

func TestAuthorize_Root(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		want    Decision
	}{
		{
			name:    "anonymous sees landing page",
			session: anonymous(),
			want:    Decision{Kind: Allow},
		},
		{
			name:    "token but unresolved identity goes to login",
			session: Session{HasToken: true},
			want:    Decision{Kind: Redirect, Location: LoginPath},
		},
		{
			name:    "onboarded brand goes to brand dashboard",
			session: withIdentity(brandUser(true)),
			want:    Decision{Kind: Redirect, Location: BrandDashboard},
		},
		{
			name:    "onboarded creator goes to creator dashboard",
			session: withIdentity(creatorUser(true)),
			want:    Decision{Kind: Redirect, Location: CreatorDashboard},
		},
		{
			name:    "un-onboarded brand goes to onboarding",
			session: withIdentity(brandUser(false)),
			want:    Decision{Kind: Redirect, Location: OnboardingPath},
		},
		{
			name:    "un-onboarded creator goes to creator onboarding",
			session: withIdentity(creatorUser(false)),
			want:    Decision{Kind: Redirect, Location: CreatorOnboarding},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize("/", ClassRoot, tt.session))
		})
	}
}

func TestAuthorize_PublicAuthPages(t *testing.T) {
	d := Authorize(LoginPath, ClassPublicAuth, anonymous())
	assert.Equal(t, Allow, d.Kind)

	// An authenticated user never sees login again.
	d = Authorize(LoginPath, ClassPublicAuth, withIdentity(brandUser(true)))
	assert.Equal(t, Decision{Kind: Redirect, Location: BrandDashboard}, d)

	d = Authorize("/signup", ClassPublicAuth, withIdentity(creatorUser(false)))
	assert.Equal(t, Decision{Kind: Redirect, Location: CreatorOnboarding}, d)
}

func TestAuthorize_ProtectedWithoutSessionFailsClosed(t *testing.T) {
	tests := []struct {
		path  string
		class Classification
	}{
		{"/dashboard", ClassShared},
		{"/brand/dashboard", ClassBrandOnly},
		{"/creator/dashboard", ClassCreatorOnly},
		{"/onboarding", ClassOnboarding},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			d := Authorize(tt.path, tt.class, anonymous())
			assert.Equal(t, Redirect, d.Kind)
			assert.Equal(t, LoginRedirect(tt.path), d.Location)
		})
	}

	// A token that never resolved to an identity also fails closed.
	d := Authorize("/dashboard", ClassShared, Session{HasToken: true})
	assert.Equal(t, Decision{Kind: Redirect, Location: LoginRedirect("/dashboard")}, d)
}

func TestAuthorize_RoleGates(t *testing.T) {
	// Wrong role bounces to the owning role's dashboard.
	d := Authorize("/brand/dashboard", ClassBrandOnly, withIdentity(creatorUser(true)))
	assert.Equal(t, Decision{Kind: Redirect, Location: CreatorDashboard}, d)

	d = Authorize("/creator/dashboard", ClassCreatorOnly, withIdentity(brandUser(true)))
	assert.Equal(t, Decision{Kind: Redirect, Location: BrandDashboard}, d)

	// Matching role passes.
	d = Authorize("/brand/dashboard", ClassBrandOnly, withIdentity(brandUser(true)))
	assert.Equal(t, AllowWithToken, d.Kind)

	d = Authorize("/creator/dashboard", ClassCreatorOnly, withIdentity(creatorUser(true)))
	assert.Equal(t, AllowWithToken, d.Kind)

	// Shared pages take either role.
	d = Authorize("/campaigns", ClassShared, withIdentity(creatorUser(true)))
	assert.Equal(t, AllowWithToken, d.Kind)
	d = Authorize("/campaigns", ClassShared, withIdentity(brandUser(true)))
	assert.Equal(t, AllowWithToken, d.Kind)
}

func TestAuthorize_IncompleteOnboardingBlocksProtectedPages(t *testing.T) {
	d := Authorize("/dashboard", ClassShared, withIdentity(brandUser(false)))
	assert.Equal(t, Decision{Kind: Redirect, Location: OnboardingPath}, d)

	d = Authorize("/dashboard", ClassShared, withIdentity(creatorUser(false)))
	assert.Equal(t, Decision{Kind: Redirect, Location: CreatorOnboarding}, d)
}

func TestAuthorize_Onboarding(t *testing.T) {
	tests := []struct {
		name string
		path string
		user *domain.UserIdentity
		want Decision
	}{
		{
			name: "onboarded brand leaves onboarding",
			path: OnboardingPath,
			user: brandUser(true),
			want: Decision{Kind: Redirect, Location: BrandDashboard},
		},
		{
			name: "onboarded creator leaves onboarding",
			path: CreatorOnboarding,
			user: creatorUser(true),
			want: Decision{Kind: Redirect, Location: CreatorDashboard},
		},
		{
			name: "role select with a chosen role skips ahead",
			path: RoleSelectPath,
			user: brandUser(false),
			want: Decision{Kind: Redirect, Location: OnboardingPath},
		},
		{
			name: "role select without a role is allowed",
			path: RoleSelectPath,
			user: &domain.UserIdentity{ID: "new-1"},
			want: Decision{Kind: AllowWithToken},
		},
		{
			name: "brand on creator onboarding is sent to brand onboarding",
			path: CreatorOnboarding,
			user: brandUser(false),
			want: Decision{Kind: Redirect, Location: OnboardingPath},
		},
		{
			name: "creator on creator onboarding passes",
			path: CreatorOnboarding,
			user: creatorUser(false),
			want: Decision{Kind: AllowWithToken},
		},
		{
			name: "creator on brand onboarding is sent to creator onboarding",
			path: OnboardingPath,
			user: creatorUser(false),
			want: Decision{Kind: Redirect, Location: CreatorOnboarding},
		},
		{
			name: "brand on brand onboarding passes",
			path: OnboardingPath,
			user: brandUser(false),
			want: Decision{Kind: AllowWithToken},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.path, ClassOnboarding, withIdentity(tt.user)))
		})
	}
}

func TestLoginRedirect_EscapesPath(t *testing.T) {
	assert.Equal(t, "/login?redirect=%2Fbrand%2Fdashboard", LoginRedirect("/brand/dashboard"))
	assert.Equal(t, "/login?redirect=%2F", LoginRedirect("/"))
}
