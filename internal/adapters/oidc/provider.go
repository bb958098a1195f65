// Package oidc implements ports.AuthProvider against an OpenID Connect
// identity provider using go-oidc for discovery and ID token verification.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/target/jobboard-api/internal/domain/auth"
	"github.com/target/jobboard-api/internal/ports"
)

const (
	wellKnownSuffix = "/.well-known/openid-configuration"
	// fallbackTokenLifetime applies when the token response carries no expiry.
	fallbackTokenLifetime = time.Hour
)

type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Scope is space separated, e.g. "openid profile email groups".
	Scope        string
	DiscoveryURL string
	LogoutURL    string
	// HTTPClient defaults to a client with a 30s timeout.
	HTTPClient *http.Client
}

type Provider struct {
	oauth      *oauth2.Config
	verifier   *gooidc.IDTokenVerifier
	op         *gooidc.Provider
	httpClient *http.Client
	logoutURL  string
}

func (c ProviderConfig) validate() error {
	switch {
	case c.ClientID == "":
		return errors.New("oidc: client ID is required")
	case c.ClientSecret == "":
		return errors.New("oidc: client secret is required")
	case c.RedirectURL == "":
		return errors.New("oidc: redirect URL is required")
	case c.DiscoveryURL == "":
		return errors.New("oidc: discovery URL is required")
	}
	return nil
}

// issuerFromDiscovery accepts either the issuer or its well-known document URL.
func issuerFromDiscovery(discoveryURL string) string {
	issuer := strings.TrimSuffix(discoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, wellKnownSuffix)
	return strings.TrimSuffix(issuer, "/")
}

// NewProvider fetches the discovery document once and builds the OAuth2
// config from the advertised endpoints.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	ctx := gooidc.ClientContext(context.Background(), client)
	op, err := gooidc.NewProvider(ctx, issuerFromDiscovery(cfg.DiscoveryURL))
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint:     op.Endpoint(),
		},
		verifier:   op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		op:         op,
		httpClient: client,
		logoutURL:  cfg.LogoutURL,
	}, nil
}

// LogoutURL is the provider's end-session endpoint, if configured.
func (p *Provider) LogoutURL() string { return p.logoutURL }

// Begin builds the authorization URL. The redirect_uri always comes from the
// configured RedirectURL; in.RedirectURL only has to be present.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("oidc: redirect URL is required")
	}
	state := oauth2.GenerateVerifier()
	nonce := oauth2.GenerateVerifier()
	authURL := p.oauth.AuthCodeURL(state,
		gooidc.Nonce(nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return authURL, state, nonce, nil
}

func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	switch {
	case in.Code == "":
		return domainauth.Identity{}, errors.New("oidc: authorization code is required")
	case in.State == "":
		return domainauth.Identity{}, errors.New("oidc: state is required")
	case in.Nonce == "":
		return domainauth.Identity{}, errors.New("oidc: nonce is required")
	}

	ctx = gooidc.ClientContext(ctx, p.httpClient)
	tok, err := p.oauth.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	var c claims
	if slices.Contains(p.oauth.Scopes, gooidc.ScopeOpenID) {
		if c, err = p.verifyIDToken(ctx, tok, in.Nonce); err != nil {
			return domainauth.Identity{}, err
		}
	}
	if c.needsUserInfo() {
		var ui claims
		if ui, err = p.userInfo(ctx, tok); err != nil {
			return domainauth.Identity{}, err
		}
		c = c.merge(ui)
	}

	id := c.identity()
	if id.UserID == "" {
		return domainauth.Identity{}, errors.New("oidc: no subject in id_token or userinfo")
	}
	id.ExpiresAt = tok.Expiry
	if id.ExpiresAt.IsZero() {
		id.ExpiresAt = time.Now().Add(fallbackTokenLifetime)
	}
	return id, nil
}

func (p *Provider) verifyIDToken(ctx context.Context, tok *oauth2.Token, nonce string) (claims, error) {
	raw, err := rawIDToken(tok)
	if err != nil {
		return claims{}, err
	}
	idTok, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return claims{}, fmt.Errorf("verify id_token: %w", err)
	}
	if idTok.Nonce != nonce {
		return claims{}, errors.New("oidc: id_token nonce mismatch")
	}
	var c claims
	if err := idTok.Claims(&c); err != nil {
		return claims{}, fmt.Errorf("decode id_token claims: %w", err)
	}
	return c, nil
}

func (p *Provider) userInfo(ctx context.Context, tok *oauth2.Token) (claims, error) {
	ui, err := p.op.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		return claims{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	var c claims
	if err := ui.Claims(&c); err != nil {
		return claims{}, fmt.Errorf("decode userinfo: %w", err)
	}
	return c, nil
}

func rawIDToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("oidc: nil token")
	}
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return "", errors.New("oidc: token response has no id_token")
	}
	return raw, nil
}

// claims covers both standard OIDC claim names and the Active Directory
// shape (samaccountname, mail, memberof) some enterprise IdPs emit.
type claims struct {
	Subject           string   `json:"sub"`
	PreferredUsername string   `json:"preferred_username"`
	SamAccountName    string   `json:"samaccountname"`
	Email             string   `json:"email"`
	Mail              string   `json:"mail"`
	GivenName         string   `json:"given_name"`
	FamilyName        string   `json:"family_name"`
	FirstName         string   `json:"firstname"`
	LastName          string   `json:"lastname"`
	Groups            []string `json:"groups"`
	MemberOf          []string `json:"memberof"`
}

func (c claims) identity() domainauth.Identity {
	groups := c.Groups
	if len(groups) == 0 {
		groups = c.MemberOf
	}
	return domainauth.Identity{
		UserID:    firstNonEmpty(c.SamAccountName, c.PreferredUsername, c.Subject),
		FirstName: firstNonEmpty(c.GivenName, c.FirstName),
		LastName:  firstNonEmpty(c.FamilyName, c.LastName),
		Email:     firstNonEmpty(c.Email, c.Mail),
		Groups:    groups,
	}
}

func (c claims) needsUserInfo() bool {
	id := c.identity()
	return id.UserID == "" || id.Email == ""
}

// merge fills fields missing from c with values from other.
func (c claims) merge(other claims) claims {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&c.Subject, other.Subject)
	fill(&c.PreferredUsername, other.PreferredUsername)
	fill(&c.SamAccountName, other.SamAccountName)
	fill(&c.Email, other.Email)
	fill(&c.Mail, other.Mail)
	fill(&c.GivenName, other.GivenName)
	fill(&c.FamilyName, other.FamilyName)
	fill(&c.FirstName, other.FirstName)
	fill(&c.LastName, other.LastName)
	if len(c.Groups) == 0 && len(c.MemberOf) == 0 {
		c.Groups = other.Groups
		c.MemberOf = other.MemberOf
	}
	return c
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
