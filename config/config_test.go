package config

import (
	"log/slog"
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:     "single service - http",
			input:    "http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:     "single service - alert-digest",
			input:    "alert-digest",
			expected: map[ServiceMode]bool{ServiceModeAlertDigest: true},
		},
		{
			name:  "both services with spaces",
			input: " http , alert-digest ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:        true,
				ServiceModeAlertDigest: true,
			},
		},
		{
			name:     "duplicate services",
			input:    "http,http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
		{
			name:        "only spaces and commas",
			input:       " , , ",
			expectError: true,
		},
		{
			name:        "retired service name",
			input:       "http,rules-engine",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestConfig_ServiceEnabledMethods(t *testing.T) {
	tests := []struct {
		name         string
		services     string
		expectedHTTP bool
		expectedDig  bool
	}{
		{name: "default - http only", services: "http", expectedHTTP: true},
		{name: "digest only", services: "alert-digest", expectedDig: true},
		{name: "both", services: "alert-digest,http", expectedHTTP: true, expectedDig: true},
		{name: "invalid disables everything", services: "invalid-service"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AppConfig{Services: tt.services}

			if got := cfg.IsHTTPServerEnabled(); got != tt.expectedHTTP {
				t.Errorf("IsHTTPServerEnabled(): expected %v, got %v", tt.expectedHTTP, got)
			}
			if got := cfg.IsAlertDigestEnabled(); got != tt.expectedDig {
				t.Errorf("IsAlertDigestEnabled(): expected %v, got %v", tt.expectedDig, got)
			}
		})
	}
}

func TestValidServiceModes(t *testing.T) {
	expected := []ServiceMode{ServiceModeHTTP, ServiceModeAlertDigest}
	if modes := ValidServiceModes(); !reflect.DeepEqual(modes, expected) {
		t.Errorf("expected %v, got %v", expected, modes)
	}
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "OAuth")
	t.Setenv("ADMIN_GROUP", "cn=jobboard-admins,ou=groups,dc=example,dc=org")
	t.Setenv("USER_GROUP", "cn=staff,ou=groups,dc=example,dc=org")
	t.Setenv("OAUTH_CLIENT_ID", "app-client")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("OAUTH_REDIRECT_URL", "https://jobs.example.com/auth/callback")
	t.Setenv("OAUTH_DISCOVERY_URL", "https://login.example.com/.well-known/openid-configuration")
	t.Setenv("OAUTH_SCOPE", "openid profile email")
	t.Setenv("DEV_AUTH_USER_ID", "dev-user")
	t.Setenv("DEV_AUTH_EMAIL", "dev@example.com")
	t.Setenv("DEV_AUTH_GROUPS", "admins;devs")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeOAuth,
		OAuth: OAuthConfig{
			ClientID:     "app-client",
			ClientSecret: "super-secret",
			RedirectURL:  "https://jobs.example.com/auth/callback",
			Scope:        "openid profile email",
			DiscoveryURL: "https://login.example.com/.well-known/openid-configuration",
		},
		DevAuth: DevAuthConfig{
			UserID:          "dev-user",
			Email:           "dev@example.com",
			FirstName:       "Dev",
			LastName:        "User",
			Groups:          []string{"admins", "devs"},
			SessionDuration: 8 * time.Hour,
		},
		AdminGroup: "cn=jobboard-admins,ou=groups,dc=example,dc=org",
		UserGroup:  "cn=staff,ou=groups,dc=example,dc=org",
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAppConfig_AdminGroupRequired(t *testing.T) {
	var cfg AppConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err == nil {
		t.Fatal("expected an error when ADMIN_GROUP is missing")
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	opts := env.Options{Environment: map[string]string{"ADMIN_GROUP": "admins"}}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.ListingsDB.Name != "jobboard" {
		t.Errorf("expected listings db name jobboard, got %q", cfg.ListingsDB.Name)
	}
	if cfg.UserDataDB.Name != "jobboard_userdata" {
		t.Errorf("expected user data db name jobboard_userdata, got %q", cfg.UserDataDB.Name)
	}
	if !cfg.Listings.RequireFixedPosted {
		t.Error("expected fixed posted check to be on by default")
	}
	if cfg.AlertDigest.Schedule != "@every 1h" {
		t.Errorf("unexpected digest schedule %q", cfg.AlertDigest.Schedule)
	}
	if cfg.AlertDigest.DefaultWindow() != 24*time.Hour {
		t.Errorf("unexpected digest window %v", cfg.AlertDigest.DefaultWindow())
	}
	if cfg.UserDataCacheTTL != 5*time.Minute {
		t.Errorf("unexpected cache ttl %v", cfg.UserDataCacheTTL)
	}
	if cfg.Observability.Logging.Level != slog.LevelInfo {
		t.Errorf("unexpected log level %v", cfg.Observability.Logging.Level)
	}
	if cfg.Auth.UserGroup != "" {
		t.Errorf("expected optional user group to stay empty, got %q", cfg.Auth.UserGroup)
	}
}

func TestAppConfig_SeparateDatabasePrefixes(t *testing.T) {
	var cfg AppConfig
	opts := env.Options{Environment: map[string]string{
		"ADMIN_GROUP":           "admins",
		"DB_HOST":               "listings.internal",
		"DB_NAME":               "listings",
		"USERDATA_DB_HOST":      "userdata.internal",
		"USERDATA_DB_PORT":      "6543",
		"USERDATA_DB_SSL_MODE":  "require",
		"LOG_LEVEL":             "debug",
		"ALERT_DIGEST_SCHEDULE": "0 7 * * *",
	}}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.ListingsDB.Host != "listings.internal" || cfg.ListingsDB.Name != "listings" {
		t.Errorf("unexpected listings db %+v", cfg.ListingsDB)
	}
	if cfg.UserDataDB.Host != "userdata.internal" || cfg.UserDataDB.Port != 6543 {
		t.Errorf("unexpected user data db %+v", cfg.UserDataDB)
	}
	if cfg.UserDataDB.SSLMode != "require" || cfg.ListingsDB.SSLMode != "disable" {
		t.Errorf("ssl modes leaked across prefixes: %q %q", cfg.ListingsDB.SSLMode, cfg.UserDataDB.SSLMode)
	}
	if cfg.Observability.Logging.Level != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.Observability.Logging.Level)
	}
	if cfg.AlertDigest.Schedule != "0 7 * * *" {
		t.Errorf("unexpected schedule %q", cfg.AlertDigest.Schedule)
	}
}

func TestAlertDigestConfig_Sanitize(t *testing.T) {
	cfg := AlertDigestConfig{Schedule: "  ", DefaultHours: -3, Concurrency: 500, LockTTL: time.Second}
	cfg.Sanitize()

	expected := AlertDigestConfig{Schedule: "@every 1h", DefaultHours: 24, Concurrency: 32, LockTTL: time.Minute}
	if cfg != expected {
		t.Fatalf("expected %+v, got %+v", expected, cfg)
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{BaseURL: " https://jobs.example.com/ "}
	cfg.Sanitize()

	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.BaseURL != "https://jobs.example.com" {
		t.Errorf("expected trimmed base url, got %q", cfg.BaseURL)
	}
	if cfg.ShutdownTimeout != 15*time.Second {
		t.Errorf("expected default shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
}

func TestAuthConfig_RedirectURLFor(t *testing.T) {
	cfg := AuthConfig{}
	if got := cfg.RedirectURLFor("https://jobs.example.com/"); got != "https://jobs.example.com/auth/callback" {
		t.Errorf("unexpected derived redirect %q", got)
	}

	cfg.OAuth.RedirectURL = "https://edge.example.com/cb"
	if got := cfg.RedirectURLFor("https://jobs.example.com"); got != "https://edge.example.com/cb" {
		t.Errorf("explicit redirect should win, got %q", got)
	}
}

func TestObservabilityConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityConfig{
		Logging: LoggingConfig{Format: " TEXT "},
		Metrics: ObservabilityMetricsConfig{
			Enabled:        true,
			Namespace:      " ",
			LatencyBuckets: []float64{1, 0.1, -1, 0.1, 0},
		},
	}
	cfg.Sanitize()

	if got := cfg.Metrics.LatencyBuckets; len(got) != 2 || got[0] != 0.1 || got[1] != 1 {
		t.Errorf("expected buckets [0.1 1], got %v", got)
	}

	if cfg.Logging.Format != "text" {
		t.Errorf("expected text format, got %q", cfg.Logging.Format)
	}
	if cfg.Metrics.Namespace != "jobboard" || !cfg.Metrics.IsEnabled() {
		t.Errorf("unexpected metrics config %+v", cfg.Metrics)
	}

	cfg.Logging.Format = "xml"
	cfg.Logging.Sanitize()
	if cfg.Logging.Format != "json" {
		t.Errorf("expected json fallback, got %q", cfg.Logging.Format)
	}
}
