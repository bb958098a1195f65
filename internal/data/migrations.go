package data

import (
	"context"
	"database/sql"

	"github.com/target/jobboard-api/internal/migrate"
)

// RunMigrations applies the given migration sets to db in order.
func RunMigrations(ctx context.Context, db *sql.DB, sets ...migrate.Set) error {
	for _, set := range sets {
		if err := migrate.Run(ctx, db, set); err != nil {
			return err
		}
	}
	return nil
}
