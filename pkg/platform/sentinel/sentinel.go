package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Clients and stores return these
// (optionally wrapped) so the gateway can translate them into routing decisions.
//
// These represent factual states, not validation failures:
// - ErrInvalidToken: the identity backend rejected the presented token
// - ErrRefreshFailed: the refresh endpoint rejected the refresh token
// - ErrUpstreamUnavailable: network or parse failure talking to the backend
// - ErrProfileNotFound: token accepted but no profile exists for it (upstream 404)
// - ErrNotFound: entity does not exist in a store
// - ErrConflict: entity already exists (id uniqueness violated)
//
// The gateway never surfaces ErrInvalidToken or ErrUpstreamUnavailable to the
// user; both degrade to the no-session path so failures stay closed.
var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrRefreshFailed       = errors.New("refresh failed")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
)
