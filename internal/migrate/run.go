// Package migrate applies the embedded SQL migrations of each database.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
)

//go:embed listings/*.sql userdata/*.sql
var migrationsFS embed.FS

// Set names a group of migrations owned by one database.
type Set string

const (
	// Listings creates the job listings table.
	Listings Set = "listings"
	// UserData creates per-user document storage.
	UserData Set = "userdata"
)

// Run applies every migration of set that is not yet recorded in
// schema_migrations. It is safe to call multiple times, and several sets may
// share one database since versions are prefixed with the set name.
func Run(ctx context.Context, db *sql.DB, set Set) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	files, err := Files(set)
	if err != nil {
		return err
	}

	logger := slog.Default().With("component", "migrations", "set", string(set))
	for _, f := range files {
		info := migrationInfo{
			version: string(set) + "/" + strings.TrimSuffix(f, ".sql"),
			file:    path.Join(string(set), f),
		}
		if applyErr := applyMigration(ctx, db, info, logger); applyErr != nil {
			return applyErr
		}
	}
	return nil
}

// Files lists the migration file names of set in apply order.
func Files(set Set) ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, string(set))
	if err != nil {
		return nil, fmt.Errorf("read migrations %s: %w", set, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no migrations for set %q", set)
	}
	sort.Strings(files)
	return files, nil
}

type migrationInfo struct {
	version string
	file    string
}

func migrationExists(ctx context.Context, db *sql.DB, info migrationInfo) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`
	if err := db.QueryRowContext(ctx, query, info.version).Scan(&exists); err != nil {
		return false, fmt.Errorf("check migration %s: %w", info.file, err)
	}
	return exists, nil
}

func applyMigration(ctx context.Context, db *sql.DB, info migrationInfo, logger *slog.Logger) error {
	exists, err := migrationExists(ctx, db, info)
	if err != nil || exists {
		return err
	}

	sqlBytes, err := migrationsFS.ReadFile(info.file)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", info.file, err)
	}

	logger.InfoContext(ctx, "applying migration", "version", info.version)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			logger.ErrorContext(ctx, "failed to rollback transaction", "err", rollbackErr, "migration_file", info.file)
		}
	}()

	if _, execErr := tx.ExecContext(ctx, string(sqlBytes)); execErr != nil {
		return fmt.Errorf("exec migration %s: %w", info.file, execErr)
	}
	if _, insErr := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, info.version); insErr != nil {
		return fmt.Errorf("record migration %s: %w", info.file, insErr)
	}
	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("commit migration %s: %w", info.file, commitErr)
	}
	return nil
}
