package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/target/jobboard-api/config"
	"github.com/target/jobboard-api/internal/core"
	"github.com/target/jobboard-api/internal/data"
	"github.com/target/jobboard-api/internal/domain/taxonomy"
	"github.com/target/jobboard-api/internal/observability/metrics"
	"github.com/target/jobboard-api/internal/service"
)

// ServiceContainer holds all application services. User data services are
// nil when the user data store is not connected; Auth is nil when login is
// not configured.
type ServiceContainer struct {
	Listings   *service.ListingService
	Favorites  *service.FavoritesService
	Tracker    *service.TrackerService
	Interviews *service.InterviewService
	Alerts     *service.AlertService
	Digest     *service.AlertDigestService
	Auth       *service.AuthService
	Metrics    *metrics.Registry
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config  *config.AppConfig
	Infra   *Infrastructure
	Catalog *taxonomy.Catalog
	Logger  *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Listings *data.ListingRepo
	UserData core.UserDataStore
	Cache    core.CacheRepository
}

// LoadCatalog reads the taxonomy named by cfg, falling back to the embedded
// catalog when no path is set.
func LoadCatalog(cfg config.CatalogConfig, logger *slog.Logger) (*taxonomy.Catalog, error) {
	catalog, err := taxonomy.Load(cfg.TaxonomyPath)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		source := cfg.TaxonomyPath
		if source == "" {
			source = "embedded"
		}
		logger.Info("taxonomy loaded",
			"source", source,
			"groups", len(catalog.Categories.Groups()),
			"continents", len(catalog.Continents.Keys()),
		)
	}
	return catalog, nil
}

// buildMetrics returns nil when metrics are disabled; every consumer accepts a nil registry.
func buildMetrics(cfg config.ObservabilityMetricsConfig) *metrics.Registry {
	if !cfg.IsEnabled() {
		return nil
	}
	opts := []metrics.Option{
		metrics.WithNamespace(cfg.Namespace),
		metrics.WithHistogramBuckets(cfg.LatencyBuckets),
	}
	if cfg.RuntimeCollectors {
		opts = append(opts, metrics.WithRuntimeCollectors())
	}
	return metrics.New(opts...)
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(cfg *config.AppConfig, infra *Infrastructure, logger *slog.Logger) *serviceRepositories {
	repos := &serviceRepositories{}
	if infra.ListingsDB != nil {
		repos.Listings = data.NewListingRepo(infra.ListingsDB)
	}
	if infra.Redis != nil {
		repos.Cache = data.NewRedisCacheRepo(infra.Redis, cfg.Redis.KeyPrefix)
	}
	if infra.UserDataDB == nil {
		return repos
	}

	var store core.UserDataStore = data.NewUserDataRepo(infra.UserDataDB)
	if repos.Cache != nil && cfg.UserDataCacheTTL > 0 {
		store = data.NewCachedUserDataStore(data.CachedUserDataStoreOptions{
			Store:  store,
			Cache:  repos.Cache,
			TTL:    cfg.UserDataCacheTTL,
			Logger: logger,
		})
	}
	repos.UserData = store
	return repos
}

// NewServices wires business services. It fails when the listing store is
// missing or the alert digest schedule does not parse.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil || deps.Infra == nil || deps.Catalog == nil {
		return ServiceContainer{}, errors.New("config, infrastructure and catalog are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	repos := buildRepositories(cfg, deps.Infra, logger)
	if repos.Listings == nil {
		return ServiceContainer{}, errors.New("listings db is not connected")
	}

	reg := buildMetrics(cfg.Observability.Metrics)
	listings := service.NewListingService(service.ListingServiceOptions{
		Repo:    repos.Listings,
		Catalog: deps.Catalog,
		Logger:  logger,
		Metrics: reg,
	})

	container := ServiceContainer{
		Listings: listings,
		Metrics:  reg,
		Auth: BuildAuthService(AuthConfig{
			Auth:        cfg.Auth,
			BaseURL:     cfg.HTTP.BaseURL,
			RedisClient: deps.Infra.Redis,
			Logger:      logger,
		}),
	}

	if repos.UserData == nil {
		logger.Warn("user data store not connected; favorites, tracker, interviews and alerts disabled")
		return container, nil
	}

	container.Favorites = service.NewFavoritesService(service.FavoritesServiceOptions{
		Store:    repos.UserData,
		Listings: listings,
		Metrics:  reg,
	})
	container.Tracker = service.NewTrackerService(service.TrackerServiceOptions{
		Store:    repos.UserData,
		Listings: listings,
		Metrics:  reg,
	})
	container.Interviews = service.NewInterviewService(service.InterviewServiceOptions{
		Store:   repos.UserData,
		Metrics: reg,
	})
	container.Alerts = service.NewAlertService(service.AlertServiceOptions{
		Store:    repos.UserData,
		Listings: listings,
		Metrics:  reg,
	})

	digest, err := service.NewAlertDigestService(service.AlertDigestServiceOptions{
		Alerts: container.Alerts,
		Users:  repos.UserData,
		Lock:   repos.Cache,
		Config: service.AlertDigestConfig{
			Schedule:      cfg.AlertDigest.Schedule,
			DefaultWindow: cfg.AlertDigest.DefaultWindow(),
			Concurrency:   cfg.AlertDigest.Concurrency,
			LockTTL:       cfg.AlertDigest.LockTTL,
		},
		Logger:  logger,
		Metrics: reg,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build alert digest: %w", err)
	}
	container.Digest = digest

	return container, nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Infra    *Infrastructure
	Logger   *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) *http.Server {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		Infra:    deps.cfg.Infra,
		Logger:   deps.logger,
		ErrCh:    deps.errCh,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				deps.logger.WarnContext(ctx, "dropping background service error", "service", descriptor.name, "error", errMsg)
			}
		}
	}()

	deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)
	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}
		handles = append(handles, backgroundServiceHandle{mode: svc.mode, name: svc.name, done: done})
	}

	return handles
}

func newAlertDigestBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeAlertDigest,
		name: "alert digest",
		start: func(ctx context.Context) error {
			digest := deps.cfg.Services.Digest
			if digest == nil {
				return errors.New("alert digest requires the user data store")
			}
			return digest.Run(ctx)
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newAlertDigestBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) ServiceStartupResult {
	return ServiceStartupResult{
		HTTPServer: startHTTPServerIfEnabled(deps),
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	result := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})

	return waitForShutdown(shutdownConfig{
		cancel:          cancel,
		errCh:           errCh,
		httpServer:      result.HTTPServer,
		shutdownTimeout: cfg.Config.HTTP.ShutdownTimeout,
		logger:          logger,
		backgrounds:     result.Background,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	count := 0
	for _, mode := range config.ValidServiceModes() {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	return errorChannelCapacity(enabled) + 1
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	cancel          context.CancelFunc
	errCh           <-chan error
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *slog.Logger
	backgrounds     []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		cfg.logger.Info("shutting down services", "signal", sig.String())
		cfg.cancel()
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel()
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop drains the HTTP server, then waits for background services.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer != nil {
		if err := ShutdownHTTPServer(ShutdownConfig{
			Server:  cfg.httpServer,
			Timeout: cfg.shutdownTimeout,
			Logger:  cfg.logger,
		}); err != nil {
			return err
		}
	}

	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
