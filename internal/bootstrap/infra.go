package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/jobboard-api/config"
	"github.com/target/jobboard-api/internal/migrate"
	"golang.org/x/sync/errgroup"
)

// InfraNeeds selects which connections ConnectInfrastructure opens.
type InfraNeeds struct {
	Listings bool
	UserData bool
	Redis    bool
}

// AllInfra opens every connection the server uses.
var AllInfra = InfraNeeds{Listings: true, UserData: true, Redis: true}

// Infrastructure holds the shared connections. Unrequested ones stay nil.
type Infrastructure struct {
	ListingsDB *sql.DB
	UserDataDB *sql.DB
	Redis      redis.UniversalClient
}

// ConnectInfrastructure opens the requested connections. On failure every
// connection opened so far is closed again.
func ConnectInfrastructure(cfg *config.AppConfig, needs InfraNeeds, logger *slog.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{}
	fail := func(err error) (*Infrastructure, error) {
		if cerr := infra.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		return nil, err
	}

	if needs.Listings {
		db, err := ConnectDB(DatabaseConfig{DBConfig: cfg.ListingsDB, Label: "listings", Logger: logger})
		if err != nil {
			return fail(fmt.Errorf("connect listings db: %w", err))
		}
		infra.ListingsDB = db
	}

	if needs.UserData {
		db, err := ConnectDB(DatabaseConfig{DBConfig: cfg.UserDataDB, Label: "userdata", Logger: logger})
		if err != nil {
			return fail(fmt.Errorf("connect userdata db: %w", err))
		}
		infra.UserDataDB = db
	}

	if needs.Redis {
		client, err := ConnectRedis(DatabaseConfig{RedisConfig: cfg.Redis, Logger: logger})
		if err != nil {
			return fail(fmt.Errorf("connect redis: %w", err))
		}
		infra.Redis = client
	}

	return infra, nil
}

// Close closes every open connection and joins the errors.
func (i *Infrastructure) Close() error {
	if i == nil {
		return nil
	}
	var closeErr error
	if i.ListingsDB != nil {
		if err := i.ListingsDB.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close listings db: %w", err))
		}
	}
	if i.UserDataDB != nil {
		if err := i.UserDataDB.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close userdata db: %w", err))
		}
	}
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close redis: %w", err))
		}
	}
	return closeErr
}

// MigrateOptions selects which databases MigrateAll touches.
type MigrateOptions struct {
	Listings bool
	UserData bool
}

// StartupMigrations honours RUN_MIGRATIONS_ON_START per database.
func StartupMigrations(cfg *config.AppConfig) MigrateOptions {
	return MigrateOptions{
		Listings: cfg.ListingsDB.RunMigrationsOnStart,
		UserData: cfg.UserDataDB.RunMigrationsOnStart,
	}
}

// MigrateAll applies the listing and user data migration sets concurrently,
// each to its own database.
func (i *Infrastructure) MigrateAll(ctx context.Context, opts MigrateOptions, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	if opts.Listings {
		if i.ListingsDB == nil {
			return errors.New("listings db is not connected")
		}
		g.Go(func() error { return RunMigrations(gctx, i.ListingsDB, migrate.Listings, logger) })
	} else if logger != nil {
		logger.InfoContext(ctx, "skipping database migrations", "set", migrate.Listings, "reason", "disabled via config")
	}
	if opts.UserData {
		if i.UserDataDB == nil {
			return errors.New("userdata db is not connected")
		}
		g.Go(func() error { return RunMigrations(gctx, i.UserDataDB, migrate.UserData, logger) })
	} else if logger != nil {
		logger.InfoContext(ctx, "skipping database migrations", "set", migrate.UserData, "reason", "disabled via config")
	}
	return g.Wait()
}

// postedChecker is the slice of ListingService used at startup.
type postedChecker interface {
	CheckPostedFormat(ctx context.Context) (int, error)
}

// VerifyPostedFormat fails when required and any listing has a posted value
// that does not sort chronologically as text.
func VerifyPostedFormat(ctx context.Context, listings postedChecker, required bool, logger *slog.Logger) error {
	bad, err := listings.CheckPostedFormat(ctx)
	if err != nil {
		return fmt.Errorf("check posted format: %w", err)
	}
	if bad == 0 {
		return nil
	}
	if required {
		return fmt.Errorf("%d listings have a posted value not in YYYY-MM-DDTHH:MM:SSZ form", bad)
	}
	if logger != nil {
		logger.WarnContext(ctx, "listings with malformed posted values; ordering and hours filters may be wrong", "count", bad)
	}
	return nil
}
