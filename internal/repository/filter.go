package repository

import (
	"fmt"
	"reflect"
	"strings"
)

// Operator is a comparison understood by every adapter.
type Operator string

const (
	OpEq   Operator = "="
	OpNe   Operator = "<>"
	OpLt   Operator = "<"
	OpLte  Operator = "<="
	OpGt   Operator = ">"
	OpGte  Operator = ">="
	OpLike Operator = "LIKE"
)

func (o Operator) valid() bool {
	switch o {
	case OpEq, OpNe, OpLt, OpLte, OpGt, OpGte, OpLike:
		return true
	}
	return false
}

// Criterion compares one column against a value.
type Criterion struct {
	Field string   // Column name as declared in the entity's db tag
	Op    Operator // Comparison to apply
	Value any      // Right-hand operand; nil only with OpEq or OpNe
}

// Filter is a conjunction of criteria. The zero Filter matches everything.
type Filter struct {
	Criteria []Criterion
}

// Where combines criteria with AND.
func Where(criteria ...Criterion) Filter {
	return Filter{Criteria: criteria}
}

// And returns a new filter with the extra criteria appended.
func (f Filter) And(criteria ...Criterion) Filter {
	merged := make([]Criterion, 0, len(f.Criteria)+len(criteria))
	merged = append(merged, f.Criteria...)
	merged = append(merged, criteria...)
	return Filter{Criteria: merged}
}

func Eq(field string, value any) Criterion { return Criterion{Field: field, Op: OpEq, Value: value} }
func Ne(field string, value any) Criterion { return Criterion{Field: field, Op: OpNe, Value: value} }
func Lt(field string, value any) Criterion { return Criterion{Field: field, Op: OpLt, Value: value} }
func Lte(field string, value any) Criterion { return Criterion{Field: field, Op: OpLte, Value: value} }
func Gt(field string, value any) Criterion { return Criterion{Field: field, Op: OpGt, Value: value} }
func Gte(field string, value any) Criterion { return Criterion{Field: field, Op: OpGte, Value: value} }
func Like(field, pattern string) Criterion { return Criterion{Field: field, Op: OpLike, Value: pattern} }

// Validate checks every criterion against the set of known columns.
func (f Filter) Validate(columns map[string]struct{}) error {
	for _, c := range f.Criteria {
		if _, ok := columns[c.Field]; !ok {
			return fmt.Errorf("unknown field %q: %w", c.Field, ErrInvalidFilter)
		}
		if !c.Op.valid() {
			return fmt.Errorf("unsupported operator %q on %s: %w", c.Op, c.Field, ErrInvalidFilter)
		}
		if c.Value == nil && c.Op != OpEq && c.Op != OpNe {
			return fmt.Errorf("nil value with operator %q on %s: %w", c.Op, c.Field, ErrInvalidFilter)
		}
		if c.Op == OpLike {
			if _, ok := c.Value.(string); !ok {
				return fmt.Errorf("LIKE on %s needs a string pattern: %w", c.Field, ErrInvalidFilter)
			}
		}
	}
	return nil
}

// Key renders the filter deterministically for use as a cache key. Field and
// value are quoted so no value can imitate another criterion.
func (f Filter) Key() string {
	if len(f.Criteria) == 0 {
		return "*"
	}
	parts := make([]string, len(f.Criteria))
	for i, c := range f.Criteria {
		parts[i] = fmt.Sprintf("%q %q %T:%q", c.Field, string(c.Op), c.Value, keyValue(c.Value))
	}
	return strings.Join(parts, " AND ")
}

// keyValue prints v, following pointers so the key reflects what the query
// will bind rather than an address.
func keyValue(v any) string {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "<nil>"
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return "<nil>"
	}
	return fmt.Sprint(rv.Interface())
}

// whereClause renders the filter with ? placeholders. Callers rebind for the
// target dialect.
func (f Filter) whereClause() (string, []any) {
	if len(f.Criteria) == 0 {
		return "", nil
	}
	var (
		parts = make([]string, 0, len(f.Criteria))
		args  = make([]any, 0, len(f.Criteria))
	)
	for _, c := range f.Criteria {
		switch {
		case c.Value == nil && c.Op == OpEq:
			parts = append(parts, c.Field+" IS NULL")
		case c.Value == nil && c.Op == OpNe:
			parts = append(parts, c.Field+" IS NOT NULL")
		default:
			parts = append(parts, fmt.Sprintf("%s %s ?", c.Field, c.Op))
			args = append(args, c.Value)
		}
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}
