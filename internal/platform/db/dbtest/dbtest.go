// Package dbtest gives repository tests a migrated, throwaway schema on the
// database named by HMS_TEST_DATABASE_URL. Tests skip when it is unset.
package dbtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ehr/hms/internal/platform/db"
)

const EnvURL = "HMS_TEST_DATABASE_URL"

// New returns a provider bound to a fresh schema with every migration
// applied. The schema is dropped when the test ends.
func New(t *testing.T) *db.Provider {
	t.Helper()

	url := os.Getenv(EnvURL)
	if url == "" {
		t.Skipf("%s not set", EnvURL)
	}

	ctx := context.Background()
	admin, err := waitForPostgres(ctx, url, 30*time.Second)
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}

	schema := fmt.Sprintf("hms_test_%d", time.Now().UnixNano())
	if _, err := db.NewMigrator(admin, MigrationsDir()).Up(ctx, schema); err != nil {
		admin.Close()
		t.Fatalf("migrate %s: %v", schema, err)
	}

	p := db.NewProvider(db.Options{URL: url, MaxConns: 1, Schema: schema}, zerolog.Nop())
	t.Cleanup(func() {
		p.Close()
		admin.Exec(context.Background(), fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schema))
		admin.Close()
	})
	return p
}

// MigrationsDir locates the repository's migrations directory.
func MigrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "..", "..", "migrations")
}

// waitForPostgres waits until postgres accepts connections and responds to queries.
func waitForPostgres(ctx context.Context, connStr string, timeout time.Duration) (*pgxpool.Pool, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		pool, err := pgxpool.New(connCtx, connStr)
		if err == nil {
			err = pool.Ping(connCtx)
			cancel()
			if err == nil {
				return pool, nil
			}
			pool.Close()
		} else {
			cancel()
		}
		lastErr = err

		time.Sleep(500 * time.Millisecond)
	}
	return nil, fmt.Errorf("postgres not ready after %v: %w", timeout, lastErr)
}
