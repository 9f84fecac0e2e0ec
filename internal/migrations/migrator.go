package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/pressly/goose/v3"
)

// Dialect identifies the SQL flavor migrations are rendered for
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func (d Dialect) goose() (goose.Dialect, error) {
	switch d {
	case SQLite:
		return goose.DialectSQLite3, nil
	case Postgres:
		return goose.DialectPostgres, nil
	}
	return "", fmt.Errorf("unsupported dialect %q", d)
}

// primaryKey returns the column definition for an auto-assigned integer key
func (d Dialect) primaryKey() string {
	if d == Postgres {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// Migration represents a database migration with up and down functions.
// Both run inside a transaction.
type Migration struct {
	Version int64
	Name    string
	Up      func(ctx context.Context, tx *sql.Tx, d Dialect) error
	Down    func(ctx context.Context, tx *sql.Tx, d Dialect) error
}

// Status reports whether a migration has been applied
type Status struct {
	Version int64
	Name    string
	Applied bool
}

// Migrator handles database migrations through a goose provider
type Migrator struct {
	db         *sql.DB
	dialect    Dialect
	migrations []Migration
}

// NewMigrator creates a new migrator instance
func NewMigrator(db *sql.DB, dialect Dialect) *Migrator {
	return &Migrator{
		db:         db,
		dialect:    dialect,
		migrations: []Migration{},
	}
}

// AddMigration adds a migration to the migrator
func (m *Migrator) AddMigration(migration Migration) {
	m.migrations = append(m.migrations, migration)
	// Sort migrations by version
	sort.Slice(m.migrations, func(i, j int) bool {
		return m.migrations[i].Version < m.migrations[j].Version
	})
}

// registered returns all registered migrations in version order
func (m *Migrator) registered() []Migration {
	return m.migrations
}

func (m *Migrator) provider() (*goose.Provider, error) {
	dialect, err := m.dialect.goose()
	if err != nil {
		return nil, err
	}

	gooseMigrations := make([]*goose.Migration, 0, len(m.migrations))
	for _, mig := range m.registered() {
		gooseMigrations = append(gooseMigrations, goose.NewGoMigration(
			mig.Version,
			&goose.GoFunc{RunTx: m.bind(mig.Up)},
			&goose.GoFunc{RunTx: m.bind(mig.Down)},
		))
	}

	return goose.NewProvider(dialect, m.db, nil,
		goose.WithDisableGlobalRegistry(true),
		goose.WithGoMigrations(gooseMigrations...),
	)
}

func (m *Migrator) bind(fn func(context.Context, *sql.Tx, Dialect) error) func(context.Context, *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, tx, m.dialect)
	}
}

// RunMigrations runs all pending migrations
func (m *Migrator) RunMigrations(ctx context.Context) error {
	p, err := m.provider()
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Rollback reverts the most recently applied migration
func (m *Migrator) Rollback(ctx context.Context) error {
	p, err := m.provider()
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	if _, err := p.Down(ctx); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// GetCurrentVersion returns the current migration version
func (m *Migrator) GetCurrentVersion(ctx context.Context) (int64, error) {
	p, err := m.provider()
	if err != nil {
		return 0, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return p.GetDBVersion(ctx)
}

// Status lists every registered migration with its applied state
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	p, err := m.provider()
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	results, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	names := make(map[int64]string, len(m.migrations))
	for _, mig := range m.registered() {
		names[mig.Version] = mig.Name
	}

	statuses := make([]Status, 0, len(results))
	for _, r := range results {
		statuses = append(statuses, Status{
			Version: r.Source.Version,
			Name:    names[r.Source.Version],
			Applied: r.State == goose.StateApplied,
		})
	}
	return statuses, nil
}

// NewNorthwindMigrator returns a migrator loaded with every schema migration
func NewNorthwindMigrator(db *sql.DB, dialect Dialect) *Migrator {
	m := NewMigrator(db, dialect)
	for _, migration := range GetInitialMigrations() {
		m.AddMigration(migration)
	}
	for _, migration := range GetPerformanceMigrations() {
		m.AddMigration(migration)
	}
	return m
}

// Run applies every pending schema migration
func Run(ctx context.Context, db *sql.DB, dialect Dialect) error {
	return NewNorthwindMigrator(db, dialect).RunMigrations(ctx)
}
