package audit

import "time"

// Action names the auth events the gateway records.
type Action string

const (
	ActionLoginRedirect  Action = "login_redirect"
	ActionRefreshFailed  Action = "refresh_failed"
	ActionTokenRefreshed Action = "token_refreshed"
	ActionRoleMismatch   Action = "role_mismatch"
	ActionAdminDenied    Action = "admin_denied"
	ActionProfileMissing Action = "profile_missing"
)

// Event is emitted from the gateway to capture security-relevant outcomes.
// Keep it transport-agnostic so stores and sinks can fan out. Token values
// never appear here, only log-safe prefixes.
type Event struct {
	Action      Action    `json:"action"`
	Timestamp   time.Time `json:"timestamp"`
	UserID      string    `json:"userId,omitempty"`
	Role        string    `json:"role,omitempty"`
	Path        string    `json:"path,omitempty"`
	RedirectTo  string    `json:"redirectTo,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	TokenPrefix string    `json:"tokenPrefix,omitempty"`
	RequestID   string    `json:"requestId,omitempty"`
	Device      string    `json:"device,omitempty"`
	ClientIP    string    `json:"clientIp,omitempty"`
}
