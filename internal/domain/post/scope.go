package post

import "github.com/google/uuid"

// Scope is the effective read filter derived from the caller-supplied
// visibility flag and the resolved identity.
//
// Private scope matches only the owner's private rows; with no owner it
// matches nothing (anonymous callers get an empty result, not an error).
// Public scope matches every non-private row regardless of owner; the
// public feed, post-by-id included, requires no identity.
type Scope struct {
	Private bool
	Owner   *uuid.UUID
}

func PrivateScope(owner *uuid.UUID) Scope {
	return Scope{Private: true, Owner: owner}
}

func PublicScope() Scope {
	return Scope{Private: false}
}
