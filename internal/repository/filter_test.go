package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var categoryColumns = map[string]struct{}{
	"id":            {},
	"category_name": {},
	"description":   {},
}

func TestFilter_WhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    Filter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "empty filter matches everything",
			filter:    Filter{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "single equality",
			filter:    ByID(7),
			wantWhere: " WHERE id = ?",
			wantArgs:  []any{int64(7)},
		},
		{
			name:      "conjunction keeps order",
			filter:    Where(Gte("id", 2), Like("category_name", "B%")),
			wantWhere: " WHERE id >= ? AND category_name LIKE ?",
			wantArgs:  []any{2, "B%"},
		},
		{
			name:      "nil equality becomes IS NULL",
			filter:    Where(Eq("description", nil)),
			wantWhere: " WHERE description IS NULL",
			wantArgs:  []any{},
		},
		{
			name:      "nil inequality becomes IS NOT NULL",
			filter:    Where(Ne("description", nil), Lt("id", 10)),
			wantWhere: " WHERE description IS NOT NULL AND id < ?",
			wantArgs:  []any{10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.whereClause()
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilter_Validate(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantErr bool
	}{
		{"empty", Filter{}, false},
		{"known column", Where(Eq("category_name", "Beverages")), false},
		{"all operators", Where(Eq("id", 1), Ne("id", 2), Lt("id", 3), Lte("id", 4), Gt("id", 0), Gte("id", 1), Like("description", "%x%")), false},
		{"null equality", Where(Eq("description", nil)), false},
		{"unknown column", Where(Eq("password", "x")), true},
		{"injection attempt", Where(Eq("id = 1 OR 1", 1)), true},
		{"unknown operator", Where(Criterion{Field: "id", Op: "BETWEEN", Value: 1}), true},
		{"null ordering", Where(Lt("id", nil)), true},
		{"non-string like", Where(Criterion{Field: "id", Op: OpLike, Value: 5}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate(categoryColumns)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFilter)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFilter_And(t *testing.T) {
	base := Where(Eq("id", 1))
	extended := base.And(Like("category_name", "C%"))

	require.Len(t, base.Criteria, 1, "And must not modify the receiver")
	require.Len(t, extended.Criteria, 2)
	assert.Equal(t, OpLike, extended.Criteria[1].Op)
}

func TestFilter_Key(t *testing.T) {
	assert.Equal(t, "*", Filter{}.Key())
	assert.Equal(t, ByID(3).Key(), ByID(3).Key())
	assert.NotEqual(t, ByID(3).Key(), ByID(4).Key())

	// Operand type is part of the key
	assert.NotEqual(t, Where(Eq("id", int64(3))).Key(), Where(Eq("id", "3")).Key())
}

func TestFilter_KeyIsUnambiguous(t *testing.T) {
	two := Where(Eq("company_name", "a"), Eq("phone", "b"))
	one := Where(Eq("company_name", "a AND phone = string:b"))
	assert.NotEqual(t, two.Key(), one.Key())

	quoted := Where(Eq("company_name", `a" AND "phone" "=" string:"b`))
	assert.NotEqual(t, two.Key(), quoted.Key())
}

func TestFilter_KeyFollowsPointers(t *testing.T) {
	id := int64(1)
	before := Where(Eq("reports_to", &id)).Key()
	id = 2
	assert.NotEqual(t, before, Where(Eq("reports_to", &id)).Key())
	assert.Equal(t, Where(Eq("reports_to", (*int64)(nil))).Key(), Where(Eq("reports_to", (*int64)(nil))).Key())
}
