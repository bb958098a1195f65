package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/target/jobboard-api/internal/data"
	domainauth "github.com/target/jobboard-api/internal/domain/auth"
	"github.com/target/jobboard-api/internal/ports"
)

// ErrUnauthenticated means the session id is missing, unknown or expired.
var ErrUnauthenticated = errors.New("unauthenticated")

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider     ports.AuthProvider // Required
	Sessions     ports.SessionStore // Required
	Roles        ports.RoleMapper   // Required
	TimeProvider data.TimeProvider  // Optional: defaults to the wall clock
	Logger       *slog.Logger       // Optional
}

// AuthService runs the login flow and resolves session ids to principals.
type AuthService struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	roles    ports.RoleMapper
	clock    data.TimeProvider
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Provider == nil || opts.Sessions == nil || opts.Roles == nil {
		panic("AuthService requires Provider, Sessions and Roles")
	}
	clock := opts.TimeProvider
	if clock == nil {
		clock = &data.RealTimeProvider{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		roles:    opts.Roles,
		clock:    clock,
		logger:   logger.With("component", "auth"),
	}
}

// BeginLoginResult carries what the handler stores in short-lived cookies
// before redirecting to AuthURL.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin login: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLogin exchanges the callback code, maps the identity's groups to a
// role and persists a new session.
func (s *AuthService) CompleteLogin(ctx context.Context, in CompleteLoginInput) (domainauth.Session, error) {
	switch {
	case in.Code == "":
		return domainauth.Session{}, errors.New("authorization code is required")
	case in.State == "":
		return domainauth.Session{}, errors.New("state parameter is required")
	case in.Nonce == "":
		return domainauth.Session{}, errors.New("nonce parameter is required")
	}

	id, err := s.provider.Exchange(ctx, ports.ExchangeInput{Code: in.Code, State: in.State, Nonce: in.Nonce})
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("exchange authorization code: %w", err)
	}
	if id.UserID == "" {
		return domainauth.Session{}, errors.New("identity has no user id")
	}

	now := s.clock.Now().UTC()
	sess := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    id.UserID,
		Name:      id.DisplayName(),
		Email:     id.Email,
		Role:      s.roles.Map(id.Groups),
		CreatedAt: now,
		ExpiresAt: id.ExpiresAt.UTC(),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", err)
	}
	s.logger.InfoContext(ctx, "login completed", "user_id", sess.UserID, "role", sess.Role)
	return sess, nil
}

// GetSession resolves a session id. Unknown and expired sessions yield
// ErrUnauthenticated; expired ones are removed from the store.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (domainauth.Session, error) {
	if sessionID == "" {
		return domainauth.Session{}, ErrUnauthenticated
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return domainauth.Session{}, ErrUnauthenticated
	}
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("get session: %w", err)
	}
	if sess.Expired(s.clock.Now()) {
		if delErr := s.sessions.Delete(ctx, sessionID); delErr != nil {
			s.logger.WarnContext(ctx, "failed to drop expired session", "error", delErr)
		}
		return domainauth.Session{}, ErrUnauthenticated
	}
	return sess, nil
}

// Verify resolves an opaque session token to the subject that keys per-user
// data.
func (s *AuthService) Verify(ctx context.Context, token string) (string, error) {
	sess, err := s.GetSession(ctx, token)
	if err != nil {
		return "", err
	}
	return sess.UserID, nil
}

// Logout drops the session. An empty id is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
