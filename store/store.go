// Package store persists connection catalogs, checkpoint state and job history in Postgres or
// SQLite. Every failure talking to the database is reported as a transient I/O error.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the sqlite driver

	"github.com/datazip-inc/olake-hydrator/store/migrations"
	"github.com/datazip-inc/olake-hydrator/types"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

type Config struct {
	Driver       string `json:"driver" mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	DSN          string `json:"dsn" mapstructure:"dsn" validate:"required"`
	MaxOpenConns int    `json:"max_open_conns" mapstructure:"max_open_conns" validate:"gte=0"`
}

func (c *Config) driverName() string {
	if c.Driver == DriverPostgres {
		return "pgx"
	}
	return "sqlite"
}

type Store struct {
	db *sqlx.DB
}

// Open connects to the configured database and applies pending migrations
func Open(ctx context.Context, config *Config) (*Store, error) {
	if strings.TrimSpace(config.DSN) == "" {
		return nil, types.NewValidationError("store dsn is required")
	}

	db, err := sqlx.ConnectContext(ctx, config.driverName(), config.DSN)
	if err != nil {
		return nil, types.NewTransientIOError(err, "failed to connect to %s store", config.Driver)
	}

	maxOpen := config.MaxOpenConns
	if config.Driver == DriverSQLite && (maxOpen == 0 || strings.Contains(config.DSN, ":memory:")) {
		// every sqlite connection to :memory: is a separate database
		maxOpen = 1
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}

	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, types.NewTransientIOError(err, "failed to migrate %s store", config.Driver)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func nowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func (s *Store) rebind(query string) string {
	return s.db.Rebind(query)
}

func wrapf(err error, format string, args ...any) error {
	return types.NewTransientIOError(err, "%s", fmt.Sprintf(format, args...))
}
