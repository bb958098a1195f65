// Package auth has hand-written doubles for the auth ports, for tests that
// want real behavior rather than call expectations.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/target/jobboard-api/internal/domain/auth"
	"github.com/target/jobboard-api/internal/ports"
)

var (
	_ ports.AuthProvider = (*MockAuthProvider)(nil)
	_ ports.SessionStore = (*MemorySessionStore)(nil)
)

// MockAuthProvider hands out numbered state and nonce values (state-1,
// nonce-1, ...) and logs in User on every Exchange. Set BeginFunc or
// ExchangeFunc to override either leg.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (string, string, string, error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	AuthURL string
	User    domainauth.Identity
	// TTL is added to time.Now for the identity expiry. Defaults to 1h.
	TTL time.Duration

	mu        sync.Mutex
	begins    int
	exchanges []ports.ExchangeInput
}

func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL: "https://idp.test/authorize",
		User: domainauth.Identity{
			UserID:    "test-user",
			FirstName: "Test",
			LastName:  "User",
			Email:     "test.user@example.com",
			Groups:    []string{"staff"},
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}
	m.mu.Lock()
	m.begins++
	n := m.begins
	m.mu.Unlock()
	return m.AuthURL, fmt.Sprintf("state-%d", n), fmt.Sprintf("nonce-%d", n), nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	m.mu.Lock()
	m.exchanges = append(m.exchanges, in)
	m.mu.Unlock()

	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	ttl := m.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	id := m.User
	id.Groups = append([]string(nil), m.User.Groups...)
	id.ExpiresAt = time.Now().Add(ttl)
	return id, nil
}

// Exchanges returns every input Exchange was called with.
func (m *MockAuthProvider) Exchanges() []ports.ExchangeInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.ExchangeInput(nil), m.exchanges...)
}

// MemorySessionStore is a map-backed SessionStore. Err, when set, is
// returned from every call.
type MemorySessionStore struct {
	Err error

	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if m.Err != nil {
		return m.Err
	}
	if sess.ID == "" {
		return errors.New("session id is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if m.Err != nil {
		return domainauth.Session{}, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
