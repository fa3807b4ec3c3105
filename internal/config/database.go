package config

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"mimoapp/internal/database"
	"mimoapp/internal/dbx"
	"mimoapp/internal/logging"
)

type Database struct {
	Db      *sql.DB
	Dialect dbx.Dialect
	cfg     DatabaseConfig
	logger  logging.Logger
}

func NewDatabase(cfg DatabaseConfig, logger logging.Logger) *Database {
	return &Database{
		Dialect: dbx.Dialect(cfg.Driver),
		cfg:     cfg,
		logger:  logger.With("module", "database"),
	}
}

// InitDB opens the pool, pings it and applies pending migrations.
func (d *Database) InitDB(ctx context.Context) error {
	var err error

	d.Db, err = sql.Open(d.cfg.Driver, d.dsn())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	d.Db.SetMaxOpenConns(d.cfg.MaxOpenConns)
	d.Db.SetMaxIdleConns(d.cfg.MaxIdleConns)
	d.Db.SetConnMaxLifetime(d.cfg.ConnMaxLifetime)
	if d.Dialect == dbx.SQLite && strings.Contains(d.cfg.URL, "memory") {
		// the database lives only as long as its single connection
		d.Db.SetMaxOpenConns(1)
		d.Db.SetMaxIdleConns(1)
		d.Db.SetConnMaxLifetime(0)
		d.Db.SetConnMaxIdleTime(0)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err = d.Db.PingContext(pingCtx); err != nil {
		if strings.Contains(err.Error(), "certificate") {
			return fmt.Errorf("database SSL verification failed: %w", err)
		}
		return fmt.Errorf("ping database: %w", err)
	}

	version, err := database.Migrate(ctx, d.Db, d.Dialect)
	if err != nil {
		return err
	}

	d.logger.Info(ctx, "connected to database", "driver", d.cfg.Driver, "schema_version", version)
	return nil
}

// Ping reports whether the database is reachable.
func (d *Database) Ping(ctx context.Context) error {
	if d.Db == nil {
		return fmt.Errorf("database not initialised")
	}
	return d.Db.PingContext(ctx)
}

func (d *Database) CloseDB() {
	if d.Db == nil {
		return
	}

	if err := d.Db.Close(); err != nil {
		d.logger.Warn(context.Background(), "closing database", "error", err)
		return
	}
	d.logger.Info(context.Background(), "connection to database closed")
}

func (d *Database) dsn() string {
	if d.Dialect != dbx.SQLite || strings.Contains(d.cfg.URL, "foreign_keys") {
		return d.cfg.URL
	}
	sep := "?"
	if strings.Contains(d.cfg.URL, "?") {
		sep = "&"
	}
	return d.cfg.URL + sep + "_pragma=foreign_keys(1)"
}
