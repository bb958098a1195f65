package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	// Import pgx driver for database/sql compatibility in tests.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/target/jobboard-api/internal/migrate"
)

// RunMigrations applies the listing and user data migrations to one test
// database. Production keeps them in separate databases.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	for _, set := range []migrate.Set{migrate.Listings, migrate.UserData} {
		if err := migrate.Run(ctx, db, set); err != nil {
			return err
		}
	}
	return nil
}

// TestDBConfig holds configuration for test database.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DefaultTestDBConfig reads TEST_DB_*. The local default port 55432 keeps
// tests away from a developer's main Postgres.
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     getEnvOrDefault("TEST_DB_HOST", "localhost"),
		Port:     getEnvOrDefault("TEST_DB_PORT", "55432"),
		User:     getEnvOrDefault("TEST_DB_USER", "jobboard"),
		Password: getEnvOrDefault("TEST_DB_PASSWORD", "jobboard"),
		DBName:   getEnvOrDefault("TEST_DB_NAME", "jobboard"),
	}
}

// DSN renders the config, optionally pinning search_path to schema.
func (c TestDBConfig) DSN(schema string) string {
	q := url.Values{"sslmode": {getEnvOrDefault("DB_SSL_MODE", "disable")}}
	if schema != "" {
		q.Set("search_path", schema+",public")
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// SkipIfNoTestDB skips the test if the test database cannot be reached.
// TEST_REQUIRE_DB or TEST_REQUIRE_INFRA turn the skip into a failure.
func SkipIfNoTestDB(t testing.TB) {
	t.Helper()

	db, err := sql.Open("pgx", DefaultTestDBConfig().DSN(""))
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = db.PingContext(ctx)
		cancel()
		closeAndLog(t, "probe DB", db)
	}
	if err != nil {
		if requireDB() {
			t.Fatal("Test database not available:", err)
		}
		t.Skip("Test database not available:", err)
	}
}

// WithAutoDB runs fn against a freshly migrated schema that is dropped when
// the test ends, so tests never see each other's rows.
func WithAutoDB(t testing.TB, fn func(*sql.DB)) {
	t.Helper()
	SkipIfNoTestDB(t)

	cfg := DefaultTestDBConfig()
	adminDB := openDB(t, cfg.DSN(""))
	schema := schemaName()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := adminDB.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		closeAndLog(t, "admin DB", adminDB)
		t.Fatalf("Failed to create schema %s: %v", schema, err)
	}

	db := openDB(t, cfg.DSN(schema))
	t.Cleanup(func() {
		closeAndLog(t, "schema DB", db)
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dropCancel()
		if _, err := adminDB.ExecContext(dropCtx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("warning: failed to drop schema %s: %v", schema, err)
		}
		closeAndLog(t, "admin DB", adminDB)
	})

	if err := RunMigrations(ctx, db); err != nil {
		t.Fatal("Failed to run migrations:", err)
	}
	fn(db)
}

func openDB(t testing.TB, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatal("Failed to open database:", err)
	}
	db.SetMaxOpenConns(5)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		closeAndLog(t, "database", db)
		t.Fatal("Failed to connect to test database:", err)
	}
	return db
}

// schemaName returns t_ plus 8 hex chars.
func schemaName() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "t_" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return "t_" + hex.EncodeToString(b)
}

// SetupTestRedis returns a client on an emptied test DB. The address comes
// from TEST_REDIS_ADDR (default localhost:56379), the DB index from
// TEST_REDIS_DB (default 1). The test is skipped when Redis is unreachable.
func SetupTestRedis(t testing.TB) *redis.Client {
	t.Helper()

	addr := getEnvOrDefault("TEST_REDIS_ADDR", "localhost:56379")
	dbIndex, err := strconv.Atoi(getEnvOrDefault("TEST_REDIS_DB", "1"))
	if err != nil || dbIndex < 0 {
		t.Fatalf("invalid TEST_REDIS_DB: %q", os.Getenv("TEST_REDIS_DB"))
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: dbIndex})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		closeAndLog(t, "redis client", client)
		if requireRedis() {
			t.Fatalf("Redis not available for testing at %s: %v", addr, pingErr)
		}
		t.Skipf("Redis not available for testing at %s: %v", addr, pingErr)
	}
	if flushErr := client.FlushDB(ctx).Err(); flushErr != nil {
		t.Fatalf("flush test redis db: %v", flushErr)
	}
	t.Cleanup(func() { closeAndLog(t, "redis client", client) })
	return client
}

func closeAndLog(t testing.TB, name string, closer interface{ Close() error }) {
	if err := closer.Close(); err != nil {
		t.Logf("warning: failed to close %s: %v", name, err)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func requireDB() bool    { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }
