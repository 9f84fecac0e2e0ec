package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"

	"github.com/jbweber/homelab/northwind/internal/domain"
)

const idColumn = "id"

// Option configures a repository adapter
type Option func(*options)

type options struct {
	cacheSize int
}

// WithCacheSize bounds the snapshot cache used for untracked reads.
// Zero disables it.
func WithCacheSize(size int) Option {
	return func(o *options) {
		o.cacheSize = size
	}
}

// SQLRepository implements Repository on top of sqlx. Column names come from
// the entity's db tags; placeholders are rebound for the connection's driver
// so the same repository works against sqlite and postgres.
type SQLRepository[T domain.Entity[T]] struct {
	db      *sqlx.DB
	table   string
	columns []string
	known   map[string]struct{}
	cache   *SnapshotCache[T]

	selectSQL string
	insertSQL string
	updateSQL string
	deleteSQL string
}

// NewSQLRepository creates a repository for T backed by db
func NewSQLRepository[T domain.Entity[T]](db *sqlx.DB, opts ...Option) *SQLRepository[T] {
	if db == nil {
		panic("repository: nil database")
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	var zero T
	columns := entityColumns(db.Mapper, reflect.TypeOf(zero))
	known := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		known[c] = struct{}{}
	}

	r := &SQLRepository[T]{
		db:      db,
		table:   zero.TableName(),
		columns: columns,
		known:   known,
		cache:   NewSnapshotCache[T](o.cacheSize, func(v T) T { return v.Clone() }),
	}
	r.prepareStatements()
	return r
}

// entityColumns lists the top-level mapped columns of t in declaration order.
func entityColumns(m *reflectx.Mapper, t reflect.Type) []string {
	tm := m.TypeMap(t)
	columns := make([]string, 0, len(tm.Tree.Children))
	for _, fi := range tm.Tree.Children {
		if fi == nil || fi.Name == "" || fi.Embedded {
			continue
		}
		columns = append(columns, fi.Name)
	}
	return columns
}

func (r *SQLRepository[T]) prepareStatements() {
	var (
		writable []string
		named    []string
		sets     []string
	)
	for _, c := range r.columns {
		if c == idColumn {
			continue
		}
		writable = append(writable, c)
		named = append(named, ":"+c)
		sets = append(sets, c+" = :"+c)
	}

	r.selectSQL = fmt.Sprintf("SELECT %s FROM %s", strings.Join(r.columns, ", "), r.table)
	r.insertSQL = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		r.table, strings.Join(writable, ", "), strings.Join(named, ", "), idColumn)
	r.updateSQL = fmt.Sprintf("UPDATE %s SET %s WHERE %s = :%s",
		r.table, strings.Join(sets, ", "), idColumn, idColumn)
	r.deleteSQL = r.db.Rebind(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", r.table, idColumn))
}

// GetAll retrieves every row ordered by id
func (r *SQLRepository[T]) GetAll(ctx context.Context, tracked bool) ([]T, error) {
	return r.query(ctx, "all", Filter{}, tracked)
}

// Find retrieves every row matching filter ordered by id
func (r *SQLRepository[T]) Find(ctx context.Context, filter Filter, tracked bool) ([]T, error) {
	if err := filter.Validate(r.known); err != nil {
		return nil, err
	}
	return r.query(ctx, "find:"+filter.Key(), filter, tracked)
}

func (r *SQLRepository[T]) query(ctx context.Context, key string, filter Filter, tracked bool) ([]T, error) {
	if !tracked {
		if rows, ok := r.cache.Get(key); ok {
			return rows, nil
		}
	}
	gen := r.cache.Generation()

	where, args := filter.whereClause()
	q := r.db.Rebind(r.selectSQL + where + " ORDER BY " + idColumn)

	rows := []T{}
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.table, err)
	}

	if !tracked {
		r.cache.Put(key, gen, rows)
	}
	return rows, nil
}

// Get retrieves the first row matching filter
func (r *SQLRepository[T]) Get(ctx context.Context, filter Filter, tracked bool) (T, error) {
	var zero T
	if err := filter.Validate(r.known); err != nil {
		return zero, err
	}

	key := "get:" + filter.Key()
	if !tracked {
		if rows, ok := r.cache.Get(key); ok && len(rows) == 1 {
			return rows[0], nil
		}
	}
	gen := r.cache.Generation()

	where, args := filter.whereClause()
	q := r.db.Rebind(r.selectSQL + where + " ORDER BY " + idColumn + " LIMIT 1")

	var entity T
	if err := r.db.GetContext(ctx, &entity, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, fmt.Errorf("%s matching %s: %w", r.table, filter.Key(), ErrNotFound)
		}
		return zero, fmt.Errorf("failed to find %s: %w", r.table, err)
	}

	if !tracked {
		r.cache.Put(key, gen, []T{entity})
	}
	return entity, nil
}

// Exists reports whether any row matches filter. It always reads the store.
func (r *SQLRepository[T]) Exists(ctx context.Context, filter Filter, tracked bool) (bool, error) {
	if err := filter.Validate(r.known); err != nil {
		return false, err
	}
	where, args := filter.whereClause()
	q := r.db.Rebind(fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s%s)", r.table, where))

	var exists bool
	if err := r.db.QueryRowxContext(ctx, q, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", r.table, err)
	}
	return exists, nil
}

// Create inserts entity and returns it with the generated id
func (r *SQLRepository[T]) Create(ctx context.Context, entity T) (T, error) {
	var zero T
	if err := checkNew(r.table, entity); err != nil {
		return zero, err
	}
	q, args, err := sqlx.Named(r.insertSQL, entity)
	if err != nil {
		return zero, fmt.Errorf("failed to bind %s insert: %w", r.table, err)
	}

	var id int64
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(q), args...).Scan(&id); err != nil {
		return zero, fmt.Errorf("failed to create %s: %w", r.table, classify(err))
	}
	r.cache.Invalidate()
	return entity.WithID(id), nil
}

// Update replaces the row with entity's id
func (r *SQLRepository[T]) Update(ctx context.Context, entity T) (T, error) {
	var zero T
	if err := checkStored(r.table, entity); err != nil {
		return zero, err
	}
	q, args, err := sqlx.Named(r.updateSQL, entity)
	if err != nil {
		return zero, fmt.Errorf("failed to bind %s update: %w", r.table, err)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), args...)
	if err != nil {
		return zero, fmt.Errorf("failed to update %s: %w", r.table, classify(err))
	}
	r.cache.Invalidate()

	if err := checkRowsAffected(res); err != nil {
		return zero, fmt.Errorf("%s with ID %d: %w", r.table, entity.GetID(), err)
	}
	return entity, nil
}

// Delete removes the row with entity's id
func (r *SQLRepository[T]) Delete(ctx context.Context, entity T) error {
	res, err := r.db.ExecContext(ctx, r.deleteSQL, entity.GetID())
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.table, classify(err))
	}
	r.cache.Invalidate()

	if err := checkRowsAffected(res); err != nil {
		return fmt.Errorf("%s with ID %d: %w", r.table, entity.GetID(), err)
	}
	return nil
}

// checkNew rejects an entity that already carries an id; ids are assigned by
// the store.
func checkNew[T domain.Entity[T]](table string, entity T) error {
	if entity.GetID() != 0 {
		return fmt.Errorf("new %s with ID %d: %w", table, entity.GetID(), ErrInvalidEntity)
	}
	return nil
}

// checkStored rejects an entity without a usable id
func checkStored[T domain.Entity[T]](table string, entity T) error {
	if entity.GetID() <= 0 {
		return fmt.Errorf("%s with ID %d: %w", table, entity.GetID(), ErrInvalidEntity)
	}
	return nil
}

func checkRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
