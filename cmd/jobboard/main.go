package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/target/jobboard-api/config"
	"github.com/target/jobboard-api/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger(config.LoggingConfig{})
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger = bootstrap.InitLogger(cfg.Observability.Logging)

	if err = bootstrap.ValidateServiceConfig(&cfg); err != nil {
		return err
	}
	logStartupInfo(ctx, logger, &cfg)

	// The taxonomy is fixed for the life of the process; a bad file is fatal.
	catalog, err := bootstrap.LoadCatalog(cfg.Catalog, logger)
	if err != nil {
		return err
	}

	infra, err := bootstrap.ConnectInfrastructure(&cfg, bootstrap.AllInfra, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := infra.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close infrastructure failed", "error", cerr)
		}
	}()

	if err = infra.MigrateAll(ctx, bootstrap.StartupMigrations(&cfg), logger); err != nil {
		return err
	}

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:  &cfg,
		Infra:   infra,
		Catalog: catalog,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	if err = bootstrap.VerifyPostedFormat(ctx, services.Listings, cfg.Listings.RequireFixedPosted, logger); err != nil {
		return err
	}

	return bootstrap.RunServicesWithShutdown(&bootstrap.ServiceOrchestrationConfig{
		Config:   &cfg,
		Services: services,
		Infra:    infra,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting jobboard service",
		"listings_db", cfg.ListingsDB.Host+"/"+cfg.ListingsDB.Name,
		"userdata_db", cfg.UserDataDB.Host+"/"+cfg.UserDataDB.Name,
		"auth_mode", cfg.Auth.Mode,
		"enabled_services", bootstrap.GetEnabledServices(cfg))
}
