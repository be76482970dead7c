// Package admin validates the separate admin console credential. Admin access
// is independent of the user session: a distinct cookie checked against a
// bcrypt hash from configuration, so the raw secret never sits in env vars.
package admin

import "golang.org/x/crypto/bcrypt"

// Verifier checks presented admin tokens.
type Verifier struct {
	hash []byte
}

// New constructs a verifier. An empty hash disables admin access entirely
// (every check fails), which is the safe default for deployments without an
// admin console.
func New(tokenHash string) *Verifier {
	return &Verifier{hash: []byte(tokenHash)}
}

// Verify reports whether the presented token matches the configured hash.
func (v *Verifier) Verify(token string) bool {
	if len(v.hash) == 0 || token == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(v.hash, []byte(token)) == nil
}
