package datastore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/jbweber/homelab/northwind/internal/config"
	"github.com/jbweber/homelab/northwind/internal/migrations"
)

const (
	sqliteDriver   = "sqlite"
	postgresDriver = "pgx"
)

func init() {
	// sqlx only knows the cgo driver name for sqlite placeholders
	sqlx.BindDriver(sqliteDriver, sqlx.QUESTION)
}

// Datastore owns the database handle shared by every repository
type Datastore struct {
	DB      *sqlx.DB
	Dialect migrations.Dialect
}

// New opens a sqlite database at dsn and runs migrations. It is the quick
// path used by tests and the CLI.
func New(dsn string) (*Datastore, error) {
	ctx := context.Background()
	db, err := sqlx.Open(sqliteDriver, SQLiteDSN(dsn))
	if err != nil {
		return nil, err
	}
	ds := &Datastore{DB: db, Dialect: migrations.SQLite}
	if err := migrations.Run(ctx, db.DB, ds.Dialect); err != nil {
		_ = db.Close()
		return nil, err
	}
	return ds, nil
}

// Open connects to the configured backend, tunes the pool and waits for the
// database to answer. Migrations are left to the caller.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Datastore, error) {
	var (
		ds  *Datastore
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		ds, err = openSQLite(cfg)
	case "postgres":
		ds, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	OptimizeDatabaseConnection(ds.DB, cfg)

	if err := ping(ctx, ds.DB); err != nil {
		_ = ds.DB.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	if ds.Dialect == migrations.SQLite {
		if err := ApplyPragmaOptimizations(ctx, ds.DB); err != nil {
			_ = ds.DB.Close()
			return nil, fmt.Errorf("failed to apply performance optimizations: %w", err)
		}
	}
	return ds, nil
}

func openSQLite(cfg config.DatabaseConfig) (*Datastore, error) {
	dbPath := config.ExpandPath(cfg.Path)

	// Ensure database directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sqlx.Open(sqliteDriver, SQLiteDSN("file:"+dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Datastore{DB: db, Dialect: migrations.SQLite}, nil
}

func openPostgres(cfg config.DatabaseConfig) (*Datastore, error) {
	db, err := sqlx.Open(postgresDriver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Datastore{DB: db, Dialect: migrations.Postgres}, nil
}

// SQLiteDSN appends the per-connection pragmas every sqlite connection needs.
// Pragmas set with Exec would only reach one pooled connection.
func SQLiteDSN(dsn string) string {
	params := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	if strings.Contains(dsn, "?") {
		return dsn + "&" + params
	}
	return dsn + "?" + params
}

// Migrate applies every pending schema migration
func (ds *Datastore) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, ds.DB.DB, ds.Dialect)
}

// Migrator returns a migrator bound to this datastore
func (ds *Datastore) Migrator() *migrations.Migrator {
	return migrations.NewNorthwindMigrator(ds.DB.DB, ds.Dialect)
}

// Close releases the connection pool
func (ds *Datastore) Close() error {
	return ds.DB.Close()
}

func ping(ctx context.Context, db *sqlx.DB) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	return backoff.Retry(func() error {
		return db.PingContext(ctx)
	}, policy)
}
