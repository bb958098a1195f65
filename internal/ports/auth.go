// Package ports declares the auth boundaries. Adapters under
// internal/adapters implement them and service.AuthService drives them.
package ports

import (
	"context"
	"errors"

	domainauth "github.com/target/jobboard-api/internal/domain/auth"
)

// ErrSessionNotFound is returned by a SessionStore for unknown or lapsed ids.
var ErrSessionNotFound = errors.New("session not found")

type BeginInput struct {
	// RedirectURL is where the browser lands after the callback completes.
	RedirectURL string
}

type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider runs the two legs of a login against an identity provider.
type AuthProvider interface {
	// Begin returns the URL to send the browser to, plus the state and nonce
	// the callback must echo back.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)
	// Exchange trades the callback code for an Identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists sessions until their ExpiresAt.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper turns provider groups into an application role.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}
