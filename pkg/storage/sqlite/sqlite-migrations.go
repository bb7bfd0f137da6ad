package sqlite

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrations embed.FS

// gooseUp is a seam for tests wanting to observe migration failures.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// migrate brings the schema to the latest embedded version. The gazetteer table isn't part of it: it's loaded
// by external tooling and only read by the application.
func migrate(ctx context.Context, logger logrus.FieldLogger, connection *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(logger)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUp(ctx, connection, "migrations")
}
