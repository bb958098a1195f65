// Package devauth is a config-driven AuthProvider for local development. It
// skips the identity provider round-trip and always logs in the same user.
package devauth

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/target/jobboard-api/internal/domain/auth"
	"github.com/target/jobboard-api/internal/ports"
)

const defaultSessionDuration = 8 * time.Hour

type Config struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	Groups    []string
	// SessionDuration defaults to 8h.
	SessionDuration time.Duration
	// CallbackPath defaults to /auth/callback.
	CallbackPath string
}

type Provider struct {
	cfg Config
	now func() time.Time
}

func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: user id is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: email is required")
	}
	if cfg.SessionDuration <= 0 {
		cfg.SessionDuration = defaultSessionDuration
	}
	if cfg.CallbackPath == "" {
		cfg.CallbackPath = "/auth/callback"
	}
	cfg.Groups = append([]string(nil), cfg.Groups...)
	return &Provider{cfg: cfg, now: time.Now}, nil
}

// Begin points the browser straight at the local callback with a fake code.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state := uuid.NewString()
	nonce := uuid.NewString()
	q := url.Values{"code": {"dev"}, "state": {state}}
	return p.cfg.CallbackPath + "?" + q.Encode(), state, nonce, nil
}

// Exchange ignores the code; state and nonce are checked by the handler.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	return domainauth.Identity{
		UserID:    p.cfg.UserID,
		FirstName: p.cfg.FirstName,
		LastName:  p.cfg.LastName,
		Email:     p.cfg.Email,
		Groups:    append([]string(nil), p.cfg.Groups...),
		ExpiresAt: p.now().Add(p.cfg.SessionDuration),
	}, nil
}
