// Package database holds the embedded schema migrations and applies them
// with goose for the configured dialect.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	goosedb "github.com/pressly/goose/v3/database"

	"mimoapp/internal/dbx"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

func migrationSource(d dbx.Dialect) (goosedb.Dialect, fs.FS, error) {
	var dialect goosedb.Dialect
	switch d {
	case dbx.Postgres:
		dialect = goosedb.DialectPostgres
	case dbx.SQLite:
		dialect = goosedb.DialectSQLite3
	default:
		return "", nil, fmt.Errorf("no migrations for dialect %q", d)
	}

	sub, err := fs.Sub(migrations, "migrations/"+string(d))
	if err != nil {
		return "", nil, err
	}
	return dialect, sub, nil
}

// Migrate applies every pending migration and returns the resulting schema version.
func Migrate(ctx context.Context, db *sql.DB, d dbx.Dialect) (int64, error) {
	dialect, fsys, err := migrationSource(d)
	if err != nil {
		return 0, err
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return 0, fmt.Errorf("goose up: %w", err)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("goose version: %w", err)
	}
	return version, nil
}
