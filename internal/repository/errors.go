package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Common repository errors that can be checked with errors.Is()
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a write would violate a unique constraint
	ErrDuplicate = errors.New("entity already exists")

	// ErrConstraint is returned when a write would violate a foreign key,
	// check or not-null constraint
	ErrConstraint = errors.New("constraint violation")

	// ErrInvalidEntity is returned when an entity's id does not fit the
	// operation: an id on Create, or none on Update
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidFilter is returned when a filter names an unknown column or
	// uses an operator the adapter cannot evaluate
	ErrInvalidFilter = errors.New("invalid filter")
)

// Postgres SQLSTATE codes for integrity violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// classify maps driver-specific integrity errors onto the repository
// sentinels. Any other error is returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return errors.Join(ErrDuplicate, err)
		case pgForeignKeyViolation, pgCheckViolation, pgNotNullViolation:
			return errors.Join(ErrConstraint, err)
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		switch code {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return errors.Join(ErrDuplicate, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return errors.Join(ErrConstraint, err)
		}
		// Without extended result codes only the primary code is set.
		if code&0xff == sqlite3.SQLITE_CONSTRAINT {
			if strings.Contains(liteErr.Error(), "UNIQUE") {
				return errors.Join(ErrDuplicate, err)
			}
			return errors.Join(ErrConstraint, err)
		}
	}

	return err
}
