package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/target/jobboard-api/internal/domain/auth"
	"github.com/target/jobboard-api/internal/domain/taxonomy"
	"github.com/target/jobboard-api/internal/mocks"
	"github.com/target/jobboard-api/internal/service"
)

var testNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAuth is a test double for AuthServiceInterface keyed by session id.
type fakeAuth struct {
	sessions      map[string]domainauth.Session
	beginErr      error
	completeErr   error
	completed     []service.CompleteLoginInput
	loggedOut     []string
	beginRedirect string
}

func newFakeAuth() *fakeAuth {
	exp := time.Now().Add(time.Hour)
	return &fakeAuth{sessions: map[string]domainauth.Session{
		"user-session":  {ID: "user-session", UserID: "u-1", Name: "Ada Lovelace", Email: "ada@example.com", Role: domainauth.RoleUser, ExpiresAt: exp},
		"admin-session": {ID: "admin-session", UserID: "u-admin", Name: "Root", Role: domainauth.RoleAdmin, ExpiresAt: exp},
		"guest-session": {ID: "guest-session", UserID: "u-guest", Role: domainauth.RoleGuest, ExpiresAt: exp},
	}}
}

func (f *fakeAuth) GetSession(_ context.Context, id string) (domainauth.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return domainauth.Session{}, service.ErrUnauthenticated
	}
	return s, nil
}

func (f *fakeAuth) BeginLogin(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	f.beginRedirect = redirectURL
	return &service.BeginLoginResult{
		AuthURL: "https://idp.example.com/authorize?state=st-1",
		State:   "st-1",
		Nonce:   "nonce-1",
	}, nil
}

func (f *fakeAuth) CompleteLogin(_ context.Context, in service.CompleteLoginInput) (domainauth.Session, error) {
	if f.completeErr != nil {
		return domainauth.Session{}, f.completeErr
	}
	f.completed = append(f.completed, in)
	s := domainauth.Session{ID: "new-session", UserID: "u-1", Role: domainauth.RoleUser, ExpiresAt: time.Now().Add(time.Hour)}
	f.sessions[s.ID] = s
	return s, nil
}

func (f *fakeAuth) Logout(_ context.Context, id string) error {
	if id == "" {
		return errors.New("empty session id")
	}
	f.loggedOut = append(f.loggedOut, id)
	delete(f.sessions, id)
	return nil
}

// newRequest builds a request carrying the session_id cookie when sessionID
// is not empty.
func newRequest(method, target, body, sessionID string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: sessionID})
	}
	return req
}

// newListingService wires the real search translation to a mocked store.
func newListingService(t *testing.T) (*service.ListingService, *mocks.MockListingRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockListingRepository(ctrl)
	catalog, err := taxonomy.Default()
	require.NoError(t, err)
	svc := service.NewListingService(service.ListingServiceOptions{
		Repo:    repo,
		Catalog: catalog,
		Now:     func() time.Time { return testNow },
		Logger:  discardLogger(),
	})
	return svc, repo
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
