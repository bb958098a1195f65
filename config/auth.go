package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"jobboard"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID          string        `env:"USER_ID"          envDefault:"dev-user"`
	Email           string        `env:"EMAIL"            envDefault:"dev@example.com"`
	FirstName       string        `env:"FIRST_NAME"       envDefault:"Dev"`
	LastName        string        `env:"LAST_NAME"        envDefault:"User"`
	Groups          []string      `env:"GROUPS"           envDefault:"admins"          envSeparator:";"`
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"8h"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminGroup is the LDAP/AD group DN for admin users.
	AdminGroup string `env:"ADMIN_GROUP,required"`

	// UserGroup is the LDAP/AD group DN for regular users. Empty admits
	// every authenticated identity as a regular user.
	UserGroup string `env:"USER_GROUP"`
}

// Sanitize trims group names and drops blank dev groups.
func (a *AuthConfig) Sanitize() {
	a.AdminGroup = strings.TrimSpace(a.AdminGroup)
	a.UserGroup = strings.TrimSpace(a.UserGroup)
	a.OAuth.DiscoveryURL = strings.TrimSpace(a.OAuth.DiscoveryURL)

	groups := a.DevAuth.Groups[:0]
	for _, g := range a.DevAuth.Groups {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	a.DevAuth.Groups = groups
	if a.DevAuth.SessionDuration <= 0 {
		a.DevAuth.SessionDuration = 8 * time.Hour
	}
}

// RedirectURLFor returns the configured OAuth redirect URL, or the callback
// route under baseURL when none is set.
func (a *AuthConfig) RedirectURLFor(baseURL string) string {
	if a.OAuth.RedirectURL != "" {
		return a.OAuth.RedirectURL
	}
	return strings.TrimRight(baseURL, "/") + "/auth/callback"
}
