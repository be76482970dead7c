package domain

// Role distinguishes the two account types the platform serves.
type Role string

const (
	RoleBrand   Role = "brand"
	RoleCreator Role = "creator"
)

// Valid reports whether the role is one the platform knows about.
func (r Role) Valid() bool {
	return r == RoleBrand || r == RoleCreator
}

// UserIdentity is the profile the identity backend returns from /auth/me. The
// gateway treats it as an opaque read-only value; it is fetched fresh (subject
// to the short user cache) whenever an authorization decision needs it.
type UserIdentity struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	Role               Role   `json:"role"`
	OnboardingComplete bool   `json:"onboardingComplete"`
	DisplayName        string `json:"displayName,omitempty"`
	CompanyName        string `json:"companyName,omitempty"`
	AvatarURL          string `json:"avatarUrl,omitempty"`
}

// TokenPair is the result of a successful refresh exchange. RefreshToken is
// empty when the backend did not rotate it.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Dashboard returns the default landing path for a role.
func (r Role) Dashboard() string {
	if r == RoleBrand {
		return "/brand/dashboard"
	}
	return "/creator/dashboard"
}

// OnboardingPath returns the onboarding step for a role. The brand flow lives
// at the onboarding root, the creator flow under /onboarding/creator.
func (r Role) OnboardingPath() string {
	if r == RoleCreator {
		return "/onboarding/creator"
	}
	return "/onboarding"
}
