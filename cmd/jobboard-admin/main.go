package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/target/jobboard-api/config"
	"github.com/target/jobboard-api/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
}

const (
	defaultMigrationTimeout = 5 * time.Minute
	defaultCommandTimeout   = 2 * time.Minute
)

func main() {
	logger := bootstrap.InitLogger(config.LoggingConfig{})

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	logger = bootstrap.InitLogger(cfg.Observability.Logging)

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
		Out:    os.Stdout,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run listing and user data migrations",
			run:         runMigrations,
		},
		"import-listings": {
			name:        "import-listings",
			description: "Upsert listings from a YAML or JSON file",
			run:         runImportListings,
		},
		"search": {
			name:        "search",
			description: "Run a listing search from key=value parameters",
			run:         runSearch,
		},
		"check-posted": {
			name:        "check-posted",
			description: "Count listings whose posted value is not in fixed-width UTC form",
			run:         runCheckPosted,
		},
		"taxonomy": {
			name:        "taxonomy",
			description: "Print the category groups and continent table",
			run:         runTaxonomy,
		},
		"run-digest": {
			name:        "run-digest",
			description: "Evaluate every saved alert once",
			run:         runDigest,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: jobboard-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-18s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

type migrateOptions struct {
	Timeout  time.Duration
	Listings bool
	UserData bool
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	opts := migrateOptions{}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "Maximum time to wait for migrations")
	fs.BoolVar(&opts.Listings, "listings", true, "Migrate the listings database")
	fs.BoolVar(&opts.UserData, "userdata", true, "Migrate the user data database")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.Timeout <= 0 {
		return opts, fmt.Errorf("timeout must be positive, got %s", opts.Timeout)
	}
	if !opts.Listings && !opts.UserData {
		return opts, fmt.Errorf("nothing to migrate: both --listings and --userdata are off")
	}
	return opts, nil
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	infra, err := bootstrap.ConnectInfrastructure(&cmdCtx.Config, bootstrap.InfraNeeds{
		Listings: opts.Listings,
		UserData: opts.UserData,
	}, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer closeInfra(cmdCtx, infra)

	cmdCtx.Logger.Info("running database migrations", "listings", opts.Listings, "userdata", opts.UserData)
	if migrateErr := infra.MigrateAll(ctx, bootstrap.MigrateOptions{
		Listings: opts.Listings,
		UserData: opts.UserData,
	}, cmdCtx.Logger); migrateErr != nil {
		return fmt.Errorf("run migrations: %w", migrateErr)
	}

	cmdCtx.Logger.Info("migrations completed successfully")
	return nil
}

// withServices connects what the command needs, builds the service
// container and hands it to fn. Connections are closed afterwards.
func withServices(
	cmdCtx *commandContext,
	needs bootstrap.InfraNeeds,
	fn func(ctx context.Context, svcs bootstrap.ServiceContainer) error,
) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, defaultCommandTimeout)
	defer cancel()

	catalog, err := bootstrap.LoadCatalog(cmdCtx.Config.Catalog, cmdCtx.Logger)
	if err != nil {
		return err
	}

	infra, err := bootstrap.ConnectInfrastructure(&cmdCtx.Config, needs, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer closeInfra(cmdCtx, infra)

	svcs, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:  &cmdCtx.Config,
		Infra:   infra,
		Catalog: catalog,
		Logger:  cmdCtx.Logger,
	})
	if err != nil {
		return err
	}
	return fn(ctx, svcs)
}

func closeInfra(cmdCtx *commandContext, infra *bootstrap.Infrastructure) {
	if err := infra.Close(); err != nil {
		cmdCtx.Logger.Warn("close infrastructure failed", "error", err)
	}
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
