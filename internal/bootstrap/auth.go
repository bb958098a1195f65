package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/jobboard-api/config"
	"github.com/target/jobboard-api/internal/adapters/authroles"
	"github.com/target/jobboard-api/internal/adapters/devauth"
	"github.com/target/jobboard-api/internal/adapters/oidc"
	redisadapter "github.com/target/jobboard-api/internal/adapters/redis"
	"github.com/target/jobboard-api/internal/ports"
	"github.com/target/jobboard-api/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	BaseURL     string
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid; the
// router then serves only the public listing routes.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RedisClient == nil {
		logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		return nil
	}

	provider := buildAuthProvider(cfg, logger)
	if provider == nil {
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: redisadapter.NewSessionStore(cfg.RedisClient),
		Roles: authroles.StaticRoleMapper{
			AdminGroup: cfg.Auth.AdminGroup,
			UserGroup:  cfg.Auth.UserGroup,
		},
		Logger: logger,
	})
}

//nolint:ireturn // the provider is picked by auth mode at runtime.
func buildAuthProvider(cfg AuthConfig, logger *slog.Logger) ports.AuthProvider {
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		dev := cfg.Auth.DevAuth
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:          dev.UserID,
			Email:           dev.Email,
			FirstName:       dev.FirstName,
			LastName:        dev.LastName,
			Groups:          dev.Groups,
			SessionDuration: dev.SessionDuration,
		})
		if err != nil {
			logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
			return nil
		}
		logger.Warn("dev auth enabled; every login signs in as the configured identity", "user_id", dev.UserID)
		return prov

	case config.AuthModeOAuth:
		oauth := cfg.Auth.OAuth
		if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
			logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
				"discovery_url_empty", oauth.DiscoveryURL == "",
				"client_id_empty", oauth.ClientID == "",
				"client_secret_empty", oauth.ClientSecret == "",
			)
			return nil
		}
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  cfg.Auth.RedirectURLFor(cfg.BaseURL),
			Scope:        oauth.Scope,
			DiscoveryURL: oauth.DiscoveryURL,
			LogoutURL:    oauth.LogoutURL,
		})
		if err != nil {
			logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
			return nil
		}
		return prov
	}
	return nil
}
