package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/jobboard-api/internal/adapters/authroles"
	"github.com/target/jobboard-api/internal/data"
	domainauth "github.com/target/jobboard-api/internal/domain/auth"
	mocks "github.com/target/jobboard-api/internal/mocks/auth"
	"github.com/target/jobboard-api/internal/ports"
)

var authNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestAuthService(t *testing.T) (*AuthService, *mocks.MockAuthProvider, *mocks.MemorySessionStore) {
	t.Helper()
	provider := mocks.NewMockAuthProvider()
	sessions := mocks.NewMemorySessionStore()
	svc := NewAuthService(AuthServiceOptions{
		Provider:     provider,
		Sessions:     sessions,
		Roles:        authroles.StaticRoleMapper{AdminGroup: "jobboard-admins", UserGroup: "staff"},
		TimeProvider: data.NewFixedTimeProvider(authNow),
	})
	return svc, provider, sessions
}

func TestNewAuthService_PanicsWithoutDeps(t *testing.T) {
	assert.Panics(t, func() { NewAuthService(AuthServiceOptions{}) })
}

func TestAuthService_BeginLogin(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	res, err := svc.BeginLogin(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, "https://idp.test/authorize", res.AuthURL)
	assert.Equal(t, "state-1", res.State)
	assert.Equal(t, "nonce-1", res.Nonce)

	_, err = svc.BeginLogin(context.Background(), "")
	require.Error(t, err)
}

func TestAuthService_BeginLogin_ProviderError(t *testing.T) {
	svc, provider, _ := newTestAuthService(t)
	provider.BeginFunc = func(context.Context, ports.BeginInput) (string, string, string, error) {
		return "", "", "", errors.New("discovery failed")
	}

	_, err := svc.BeginLogin(context.Background(), "/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin login")
}

func TestAuthService_CompleteLogin(t *testing.T) {
	svc, provider, sessions := newTestAuthService(t)
	provider.User.Groups = []string{"JOBBOARD-ADMINS"}

	sess, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "test-user", sess.UserID)
	assert.Equal(t, "Test User", sess.Name)
	assert.Equal(t, domainauth.RoleAdmin, sess.Role)
	assert.Equal(t, authNow, sess.CreatedAt)
	assert.Equal(t, 1, sessions.Len())

	stored, err := sessions.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess, stored)

	assert.Equal(t, []ports.ExchangeInput{{Code: "c", State: "s", Nonce: "n"}}, provider.Exchanges())
}

func TestAuthService_CompleteLogin_Validation(t *testing.T) {
	svc, provider, _ := newTestAuthService(t)
	inputs := []CompleteLoginInput{
		{State: "s", Nonce: "n"},
		{Code: "c", Nonce: "n"},
		{Code: "c", State: "s"},
	}
	for _, in := range inputs {
		_, err := svc.CompleteLogin(context.Background(), in)
		require.Error(t, err)
	}
	assert.Empty(t, provider.Exchanges())
}

func TestAuthService_CompleteLogin_Failures(t *testing.T) {
	t.Run("exchange error", func(t *testing.T) {
		svc, provider, sessions := newTestAuthService(t)
		provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
			return domainauth.Identity{}, errors.New("invalid_grant")
		}
		_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
		require.Error(t, err)
		assert.Equal(t, 0, sessions.Len())
	})

	t.Run("empty subject", func(t *testing.T) {
		svc, provider, _ := newTestAuthService(t)
		provider.User.UserID = ""
		_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
		require.Error(t, err)
	})

	t.Run("store error", func(t *testing.T) {
		svc, _, sessions := newTestAuthService(t)
		sessions.Err = errors.New("redis down")
		_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "save session")
	})
}

func TestAuthService_GetSessionAndVerify(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	ctx := context.Background()

	live := domainauth.Session{ID: "live", UserID: "u1", Role: domainauth.RoleUser, ExpiresAt: authNow.Add(time.Hour)}
	stale := domainauth.Session{ID: "stale", UserID: "u2", Role: domainauth.RoleUser, ExpiresAt: authNow.Add(-time.Minute)}
	require.NoError(t, sessions.Save(ctx, live))
	require.NoError(t, sessions.Save(ctx, stale))

	got, err := svc.GetSession(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	subject, err := svc.Verify(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "u1", subject)

	_, err = svc.GetSession(ctx, "stale")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, 1, sessions.Len(), "expired session should be dropped")

	_, err = svc.Verify(ctx, "unknown")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.GetSession(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_GetSession_StoreError(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	sessions.Err = errors.New("redis down")

	_, err := svc.GetSession(context.Background(), "any")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	ctx := context.Background()
	require.NoError(t, sessions.Save(ctx, domainauth.Session{ID: "s1", UserID: "u1", ExpiresAt: authNow.Add(time.Hour)}))

	require.NoError(t, svc.Logout(ctx, ""))
	require.NoError(t, svc.Logout(ctx, "s1"))
	assert.Equal(t, 0, sessions.Len())

	sessions.Err = errors.New("redis down")
	require.Error(t, svc.Logout(ctx, "s1"))
}
