// Package migrations owns the database schema and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/AlibekovAA/book-review/internal/common/logger"
)

//go:embed sql/*.sql
var FS embed.FS

const dir = "sql"

// gooseUp is a seam for tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// Up applies every pending migration. It opens a short-lived database/sql
// handle because goose does not speak pgxpool.
func Up(ctx context.Context, log *logger.Logger, databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	return Apply(ctx, log, db)
}

func Apply(ctx context.Context, log *logger.Logger, db *sql.DB) error {
	goose.SetBaseFS(FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := gooseUp(ctx, db, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	log.Info("database schema is up to date")
	return nil
}
