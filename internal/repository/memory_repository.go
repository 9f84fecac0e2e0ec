package repository

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx/reflectx"
	"github.com/shopspring/decimal"

	"github.com/jbweber/homelab/northwind/internal/domain"
)

// MemoryRepository implements Repository in process memory. Filters are
// evaluated against the entity's db-tagged fields. Relational constraints are
// not enforced; uniqueness is left to callers.
type MemoryRepository[T domain.Entity[T]] struct {
	mu     sync.RWMutex
	rows   map[int64]T
	nextID int64
	table  string
	known  map[string]struct{}
	mapper *reflectx.Mapper
}

// NewMemoryRepository creates an empty in-memory repository for T
func NewMemoryRepository[T domain.Entity[T]]() *MemoryRepository[T] {
	var zero T
	mapper := reflectx.NewMapperFunc("db", strings.ToLower)
	columns := entityColumns(mapper, reflect.TypeOf(zero))
	known := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		known[c] = struct{}{}
	}
	return &MemoryRepository[T]{
		rows:   make(map[int64]T),
		table:  zero.TableName(),
		known:  known,
		mapper: mapper,
	}
}

// GetAll retrieves every entity ordered by id
func (r *MemoryRepository[T]) GetAll(ctx context.Context, tracked bool) ([]T, error) {
	return r.Find(ctx, Filter{}, tracked)
}

// Find retrieves every entity matching filter ordered by id
func (r *MemoryRepository[T]) Find(ctx context.Context, filter Filter, _ bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := filter.Validate(r.known); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	result := []T{}
	for _, id := range ids {
		row := r.rows[id]
		ok, err := r.matches(row, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			result = append(result, row.Clone())
		}
	}
	return result, nil
}

// Get retrieves the first entity matching filter
func (r *MemoryRepository[T]) Get(ctx context.Context, filter Filter, tracked bool) (T, error) {
	var zero T
	rows, err := r.Find(ctx, filter, tracked)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, fmt.Errorf("%s matching %s: %w", r.table, filter.Key(), ErrNotFound)
	}
	return rows[0], nil
}

// Exists reports whether any entity matches filter
func (r *MemoryRepository[T]) Exists(ctx context.Context, filter Filter, tracked bool) (bool, error) {
	rows, err := r.Find(ctx, filter, tracked)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// Create stores entity under the next id
func (r *MemoryRepository[T]) Create(ctx context.Context, entity T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if err := checkNew(r.table, entity); err != nil {
		return zero, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	created := entity.WithID(r.nextID)
	r.rows[created.GetID()] = created.Clone()
	return created, nil
}

// Update replaces the entity with the same id
func (r *MemoryRepository[T]) Update(ctx context.Context, entity T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if err := checkStored(r.table, entity); err != nil {
		return zero, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[entity.GetID()]; !ok {
		return zero, fmt.Errorf("%s with ID %d: %w", r.table, entity.GetID(), ErrNotFound)
	}
	r.rows[entity.GetID()] = entity.Clone()
	return entity, nil
}

// Delete removes the entity with the same id
func (r *MemoryRepository[T]) Delete(ctx context.Context, entity T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[entity.GetID()]; !ok {
		return fmt.Errorf("%s with ID %d: %w", r.table, entity.GetID(), ErrNotFound)
	}
	delete(r.rows, entity.GetID())
	return nil
}

func (r *MemoryRepository[T]) matches(row T, filter Filter) (bool, error) {
	v := reflect.ValueOf(row)
	tm := r.mapper.TypeMap(v.Type())
	for _, c := range filter.Criteria {
		fi := tm.GetByPath(c.Field)
		if fi == nil {
			return false, fmt.Errorf("unknown field %q: %w", c.Field, ErrInvalidFilter)
		}
		// Read-only walk; FieldByIndexes would allocate nil pointers in place.
		field := v.FieldByIndex(fi.Index)
		ok, err := evaluate(field, c)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evaluate(field reflect.Value, c Criterion) (bool, error) {
	for field.Kind() == reflect.Pointer {
		if field.IsNil() {
			switch {
			case c.Value == nil && c.Op == OpEq:
				return true, nil
			case c.Value == nil && c.Op == OpNe:
				return false, nil
			}
			// NULL never compares true in SQL
			return false, nil
		}
		field = field.Elem()
	}
	if c.Value == nil {
		return c.Op == OpNe, nil
	}

	if c.Op == OpLike {
		s, ok := field.Interface().(string)
		if !ok {
			return false, fmt.Errorf("LIKE on non-text field %s: %w", c.Field, ErrInvalidFilter)
		}
		return likePattern(c.Value.(string)).MatchString(s), nil
	}

	cmp, err := compare(field.Interface(), c.Value)
	if err != nil {
		return false, fmt.Errorf("field %s: %w", c.Field, err)
	}
	switch c.Op {
	case OpEq:
		return cmp == 0, nil
	case OpNe:
		return cmp != 0, nil
	case OpLt:
		return cmp < 0, nil
	case OpLte:
		return cmp <= 0, nil
	case OpGt:
		return cmp > 0, nil
	case OpGte:
		return cmp >= 0, nil
	}
	return false, fmt.Errorf("operator %q: %w", c.Op, ErrInvalidFilter)
}

// compare orders a field value against a filter operand of a compatible type.
func compare(field, operand any) (int, error) {
	switch f := field.(type) {
	case string:
		s, ok := operand.(string)
		if !ok {
			break
		}
		return strings.Compare(f, s), nil
	case bool:
		b, ok := operand.(bool)
		if !ok {
			break
		}
		switch {
		case f == b:
			return 0, nil
		case !f:
			return -1, nil
		}
		return 1, nil
	case time.Time:
		t, ok := operand.(time.Time)
		if !ok {
			break
		}
		return f.Compare(t), nil
	case decimal.Decimal:
		d, ok := toDecimal(operand)
		if !ok {
			break
		}
		return f.Cmp(d), nil
	default:
		fd, ok := toDecimal(field)
		if !ok {
			break
		}
		od, ok := toDecimal(operand)
		if !ok {
			break
		}
		return fd.Cmp(od), nil
	}
	return 0, fmt.Errorf("cannot compare %T with %T: %w", field, operand, ErrInvalidFilter)
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case string:
		d, err := decimal.NewFromString(n)
		return d, err == nil
	}
	return decimal.Decimal{}, false
}

// likePattern translates a SQL LIKE pattern into a case-insensitive regexp,
// matching sqlite's ASCII behavior.
func likePattern(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("(?is)^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}
