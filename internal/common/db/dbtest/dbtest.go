// Package dbtest gives repository tests a migrated, throwaway Postgres schema.
package dbtest

import (
	"context"
	"io"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/book-review/internal/common/logger"
	"github.com/AlibekovAA/book-review/internal/migrations"
)

const envURL = "TEST_DATABASE_URL"

// NewPool creates a fresh schema on TEST_DATABASE_URL, applies migrations to
// it and returns a pool scoped to it. The schema is dropped on cleanup. The
// test is skipped when the variable is unset.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	base := os.Getenv(envURL)
	if base == "" {
		t.Skipf("%s not set", envURL)
	}
	ctx := context.Background()

	admin, err := pgx.Connect(ctx, base)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := admin.Exec(ctx, "CREATE SCHEMA "+schema); err != nil {
		_ = admin.Close(ctx)
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		_, _ = admin.Exec(ctx, "DROP SCHEMA "+schema+" CASCADE")
		_ = admin.Close(ctx)
	})

	scoped, err := withSearchPath(base, schema)
	if err != nil {
		t.Fatalf("scope url: %v", err)
	}

	if err := migrations.Up(ctx, logger.NewWithWriter(io.Discard, "test", "error"), scoped); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.Connect(ctx, scoped)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

func withSearchPath(connString, schema string) (string, error) {
	if !strings.Contains(connString, "://") {
		return connString + " search_path=" + schema, nil
	}
	u, err := url.Parse(connString)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
