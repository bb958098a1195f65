package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/jobboard-api/config"
	httpx "github.com/target/jobboard-api/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Infra    *Infrastructure
	Logger   *slog.Logger
	// ErrCh receives a listen failure; optional.
	ErrCh chan<- error
}

// RouterServicesFor maps the container onto the router. Nil services are
// left out so the router skips their routes.
func RouterServicesFor(appCfg *config.AppConfig, svcs ServiceContainer, infra *Infrastructure, logger *slog.Logger) httpx.RouterServices {
	rs := httpx.RouterServices{
		Listings:     svcs.Listings,
		Readiness:    readinessChecks(infra),
		Metrics:      svcs.Metrics,
		CookieDomain: appCfg.HTTP.CookieDomain,
		LogoutURL:    appCfg.Auth.OAuth.LogoutURL,
		Logger:       logger,
	}
	// Assigning a nil pointer to an interface field would make it non-nil.
	if svcs.Auth != nil {
		rs.Auth = svcs.Auth
	}
	if svcs.Favorites != nil {
		rs.Favorites = svcs.Favorites
	}
	if svcs.Tracker != nil {
		rs.Tracker = svcs.Tracker
	}
	if svcs.Interviews != nil {
		rs.Interviews = svcs.Interviews
	}
	if svcs.Alerts != nil {
		rs.Alerts = svcs.Alerts
	}
	if svcs.Digest != nil {
		rs.Digest = svcs.Digest
	}
	return rs
}

func readinessChecks(infra *Infrastructure) map[string]httpx.HealthCheck {
	checks := map[string]httpx.HealthCheck{}
	if infra == nil {
		return checks
	}
	if db := infra.ListingsDB; db != nil {
		checks["listings_db"] = db.PingContext
	}
	if db := infra.UserDataDB; db != nil {
		checks["userdata_db"] = db.PingContext
	}
	if client := infra.Redis; client != nil {
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	return checks
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler := httpx.NewRouter(RouterServicesFor(appCfg, cfg.Services, cfg.Infra, logger))
	return startServer(logger, handler, appCfg.HTTP, cfg.ErrCh)
}

func startServer(logger *slog.Logger, handler http.Handler, httpCfg config.HTTPConfig, errCh chan<- error) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	addr := httpCfg.Addr
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       httpCfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      httpCfg.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			if errCh != nil {
				select {
				case errCh <- fmt.Errorf("http server: %w", err):
				default:
				}
			}
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Server  *http.Server
	Timeout time.Duration
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server. In-flight
// requests get Timeout to finish.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = shutdownWaitTimeout
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server", "timeout", timeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
