package ports

// Package ports defines interfaces (hexagonal ports) for the session
// gateway. Implementations live in internal/adapters; orchestration in
// internal/session.

import (
	"context"
	"encoding/json"
	"errors"

	domainauth "github.com/classpoint/schoolgate/internal/domain/auth"
)

// ErrNoSession is returned by CredentialCache.Load when no usable cached
// session exists. A half-written record (token without identity or the
// reverse) is corrupt and reported the same way after being discarded.
var ErrNoSession = errors.New("no cached session")

// CacheRecord is the durable session record. Token, Identity, and Expiry
// always move together: Save writes all three as a unit and Clear removes
// all three as a unit. Identity stays serialized so the session store can
// normalize it exactly once on load.
type CacheRecord struct {
	Token    string          `json:"token"`
	Identity json.RawMessage `json:"user"`
	Expiry   string          `json:"token_expiry,omitempty"`
}

// Complete reports whether the record holds both a token and an identity.
func (r CacheRecord) Complete() bool {
	return r.Token != "" && len(r.Identity) > 0
}

// CredentialCache persists the session record across process restarts.
type CredentialCache interface {
	Save(ctx context.Context, rec CacheRecord) error
	Load(ctx context.Context) (CacheRecord, error)
	Clear(ctx context.Context) error
}

// FlagStore holds ephemeral one-shot flags, such as the session-expired
// notice the sign-in page surfaces. Take returns the value and deletes it.
type FlagStore interface {
	Set(ctx context.Context, key, value string) error
	Take(ctx context.Context, key string) (string, bool, error)
}

// LoginResult is the outcome of a login attempt against the school API.
// OK false carries the server-provided message; Identity and Token are only
// populated when OK is true.
type LoginResult struct {
	OK       bool
	Message  string
	Identity domainauth.Identity
	Token    string
	Expiry   string
}

// AuthAPI is the slice of the school API the gateway depends on.
type AuthAPI interface {
	// Login authenticates with email and password. A well-formed rejection
	// (wrong password, deactivated account) is a LoginResult with OK false,
	// not an error; errors are reserved for transport-level failures.
	Login(ctx context.Context, email, password string, rememberMe bool) (LoginResult, error)

	// CurrentIdentity fetches the signed-in principal, normalized.
	CurrentIdentity(ctx context.Context) (domainauth.Identity, error)

	// Logout notifies the server. Best effort; local state is authoritative.
	Logout(ctx context.Context) error
}

// Navigator performs top-level navigation. The transport layer never
// navigates itself; it raises an invalidation signal and a single Navigator
// subscriber moves the user to the sign-in page.
type Navigator interface {
	// ToSignIn navigates to the sign-in page unless already there.
	ToSignIn()
	// To navigates to an arbitrary path.
	To(path string)
}
