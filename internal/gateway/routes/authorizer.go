package routes

import (
	"net/url"

	"brandreach/internal/domain"
)

// DecisionKind enumerates authorizer outcomes.
type DecisionKind int

const (
	// Allow passes the request through without auth headers.
	Allow DecisionKind = iota
	// AllowWithToken passes the request through with the resolved access
	// token injected into the outgoing headers (when one is present).
	AllowWithToken
	// Redirect sends the client to Decision.Location.
	Redirect
)

// Decision is the authorizer's verdict for one request.
type Decision struct {
	Kind     DecisionKind
	Location string
}

func redirect(location string) Decision { return Decision{Kind: Redirect, Location: location} }

// Session carries the facts the decision table needs. Identity is nil when
// the session gate could not produce a validated identity; HasToken reports
// whether any access token survived the gate.
type Session struct {
	HasToken   bool
	Identity   *domain.UserIdentity
	AdminValid bool
}

// LoginRedirect builds the login URL preserving the originally requested path.
func LoginRedirect(path string) string {
	return LoginPath + "?redirect=" + url.QueryEscape(path)
}

// Authorize applies the decision table for a classified path. Evaluation
// mirrors the table order: static and API classes first, then admin, then the
// session-aware page rules.
func Authorize(path string, class Classification, session Session) Decision {
	switch class {
	case ClassStatic, ClassAdminLogin:
		return Decision{Kind: Allow}

	case ClassAPIAuth, ClassAPI, ClassPassthrough:
		// Downstream handlers do their own auth; attach whatever token the
		// gate resolved.
		return Decision{Kind: AllowWithToken}

	case ClassAdmin:
		if !session.AdminValid {
			return redirect(AdminLoginPath)
		}
		return Decision{Kind: AllowWithToken}

	case ClassRoot:
		if !session.HasToken {
			return Decision{Kind: Allow} // landing page
		}
		if session.Identity == nil {
			return redirect(LoginPath)
		}
		return redirect(postAuthHome(session.Identity))

	case ClassPublicAuth:
		// Don't re-show login/signup to an already-authenticated user.
		if session.Identity != nil {
			return redirect(postAuthHome(session.Identity))
		}
		return Decision{Kind: Allow}
	}

	// Protected classes from here on.
	if !session.HasToken || session.Identity == nil {
		return redirect(LoginRedirect(path))
	}
	user := session.Identity

	if class == ClassOnboarding {
		return authorizeOnboarding(path, user)
	}

	if !user.OnboardingComplete {
		return redirect(user.Role.OnboardingPath())
	}
	if class == ClassBrandOnly && user.Role != domain.RoleBrand {
		return redirect(CreatorDashboard)
	}
	if class == ClassCreatorOnly && user.Role != domain.RoleCreator {
		return redirect(BrandDashboard)
	}
	return Decision{Kind: AllowWithToken}
}

// authorizeOnboarding keeps users on the onboarding step that matches their
// role and progress.
func authorizeOnboarding(path string, user *domain.UserIdentity) Decision {
	if user.OnboardingComplete {
		return redirect(user.Role.Dashboard())
	}
	if path == RoleSelectPath {
		if user.Role.Valid() {
			return redirect(user.Role.OnboardingPath())
		}
		return Decision{Kind: AllowWithToken}
	}
	if hasPathPrefix(path, CreatorOnboarding) {
		if user.Role != domain.RoleCreator {
			return redirect(OnboardingPath)
		}
		return Decision{Kind: AllowWithToken}
	}
	// Brand onboarding lives at the onboarding root.
	if user.Role == domain.RoleCreator {
		return redirect(CreatorOnboarding)
	}
	return Decision{Kind: AllowWithToken}
}

// postAuthHome is where an authenticated user lands: their pending onboarding
// step, or their role dashboard once onboarding is complete.
func postAuthHome(user *domain.UserIdentity) string {
	if !user.OnboardingComplete {
		return user.Role.OnboardingPath()
	}
	return user.Role.Dashboard()
}
