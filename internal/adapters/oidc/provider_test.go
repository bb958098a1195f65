package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/target/jobboard-api/internal/ports"
)

// newDiscoveryServer serves a minimal discovery document whose issuer matches
// the server URL. The token endpoint always fails.
func newDiscoveryServer(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"issuer":                 srv.URL,
			"authorization_endpoint": srv.URL + "/authorize",
			"token_endpoint":         srv.URL + "/token",
			"userinfo_endpoint":      srv.URL + "/userinfo",
			"jwks_uri":               srv.URL + "/jwks",
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(t *testing.T) (*Provider, *httptest.Server) {
	t.Helper()
	srv := newDiscoveryServer(t)
	p, err := NewProvider(ProviderConfig{
		ClientID:     "jobboard",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
		Scope:        "openid profile email groups",
		DiscoveryURL: srv.URL + "/.well-known/openid-configuration",
		LogoutURL:    srv.URL + "/logout",
	})
	require.NoError(t, err)
	return p, srv
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	base := ProviderConfig{
		ClientID:     "c",
		ClientSecret: "s",
		RedirectURL:  "http://localhost/cb",
		DiscoveryURL: "http://idp.example.com",
	}
	tests := []struct {
		name   string
		mutate func(*ProviderConfig)
		errMsg string
	}{
		{"missing client id", func(c *ProviderConfig) { c.ClientID = "" }, "client ID is required"},
		{"missing secret", func(c *ProviderConfig) { c.ClientSecret = "" }, "client secret is required"},
		{"missing redirect", func(c *ProviderConfig) { c.RedirectURL = "" }, "redirect URL is required"},
		{"missing discovery", func(c *ProviderConfig) { c.DiscoveryURL = "" }, "discovery URL is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			_, err := NewProvider(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestIssuerFromDiscovery(t *testing.T) {
	assert.Equal(t, "https://idp.example.com", issuerFromDiscovery("https://idp.example.com/.well-known/openid-configuration"))
	assert.Equal(t, "https://idp.example.com", issuerFromDiscovery("https://idp.example.com/"))
	assert.Equal(t, "https://idp.example.com/tenant", issuerFromDiscovery("https://idp.example.com/tenant"))
}

func TestProvider_Begin(t *testing.T) {
	p, srv := newTestProvider(t)
	assert.Equal(t, srv.URL+"/logout", p.LogoutURL())

	authURL, state, nonce, err := p.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)
	require.NotEmpty(t, state)
	require.NotEmpty(t, nonce)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "/authorize", u.Path)
	q := u.Query()
	assert.Equal(t, "jobboard", q.Get("client_id"))
	assert.Equal(t, state, q.Get("state"))
	assert.Equal(t, nonce, q.Get("nonce"))
	assert.Equal(t, "http://localhost:8080/auth/callback", q.Get("redirect_uri"))
	assert.Equal(t, "select_account", q.Get("prompt"))

	_, _, _, err = p.Begin(context.Background(), ports.BeginInput{})
	require.Error(t, err)
}

func TestProvider_Exchange(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	missing := []ports.ExchangeInput{
		{State: "s", Nonce: "n"},
		{Code: "c", Nonce: "n"},
		{Code: "c", State: "s"},
	}
	for _, in := range missing {
		_, err := p.Exchange(ctx, in)
		require.Error(t, err)
	}

	_, err := p.Exchange(ctx, ports.ExchangeInput{Code: "c", State: "s", Nonce: "n"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange code for token")
}

func TestRawIDToken(t *testing.T) {
	raw, err := rawIDToken((&oauth2.Token{}).WithExtra(map[string]any{"id_token": "a.b.c"}))
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", raw)

	_, err = rawIDToken(&oauth2.Token{})
	require.Error(t, err)

	_, err = rawIDToken(nil)
	require.Error(t, err)
}

func TestClaims_Identity(t *testing.T) {
	t.Run("standard claims", func(t *testing.T) {
		id := claims{
			Subject:           "sub-1",
			PreferredUsername: "ada",
			Email:             "ada@example.com",
			GivenName:         "Ada",
			FamilyName:        "Lovelace",
			Groups:            []string{"staff"},
		}.identity()
		assert.Equal(t, "ada", id.UserID)
		assert.Equal(t, "ada@example.com", id.Email)
		assert.Equal(t, "Ada", id.FirstName)
		assert.Equal(t, "Lovelace", id.LastName)
		assert.Equal(t, []string{"staff"}, id.Groups)
	})

	t.Run("directory claims", func(t *testing.T) {
		id := claims{
			Subject:        "sub-2",
			SamAccountName: "z001",
			Mail:           "z001@example.com",
			FirstName:      "Grace",
			LastName:       "Hopper",
			MemberOf:       []string{"CN=jobboard-admins,OU=Groups"},
		}.identity()
		assert.Equal(t, "z001", id.UserID)
		assert.Equal(t, "z001@example.com", id.Email)
		assert.Equal(t, "Grace", id.FirstName)
		assert.Equal(t, []string{"CN=jobboard-admins,OU=Groups"}, id.Groups)
	})
}

func TestClaims_Merge(t *testing.T) {
	c := claims{Subject: "sub-1"}
	assert.True(t, c.needsUserInfo())

	merged := c.merge(claims{Subject: "other", Email: "x@example.com", Groups: []string{"staff"}})
	assert.Equal(t, "sub-1", merged.Subject)
	assert.Equal(t, "x@example.com", merged.Email)
	assert.Equal(t, []string{"staff"}, merged.Groups)
	assert.False(t, merged.needsUserInfo())

	kept := claims{Subject: "s", Email: "e", MemberOf: []string{"a"}}.merge(claims{Groups: []string{"b"}})
	assert.Equal(t, []string{"a"}, kept.MemberOf)
	assert.Empty(t, kept.Groups)
}
