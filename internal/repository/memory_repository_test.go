package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/homelab/northwind/internal/domain"
)

func TestMemoryRepository_CRUD(t *testing.T) {
	repo := NewMemoryRepository[domain.Category]()
	ctx := context.Background()

	all, err := repo.GetAll(ctx, false)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	created, err := repo.Create(ctx, domain.Category{CategoryName: "Beverages"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	second, err := repo.Create(ctx, domain.Category{CategoryName: "Condiments"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	found, err := repo.Get(ctx, ByID(created.ID), false)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	created.Description = "Coffee and tea"
	_, err = repo.Update(ctx, created)
	require.NoError(t, err)

	found, err = repo.Get(ctx, ByID(created.ID), true)
	require.NoError(t, err)
	assert.Equal(t, "Coffee and tea", found.Description)

	require.NoError(t, repo.Delete(ctx, created))
	exists, err := repo.Exists(ctx, ByID(created.ID), false)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, repo.Delete(ctx, created), ErrNotFound)
	_, err = repo.Update(ctx, created)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Get(ctx, ByID(created.ID), false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepository_IDsNotReused(t *testing.T) {
	repo := NewMemoryRepository[domain.Shipper]()
	ctx := context.Background()

	first, err := repo.Create(ctx, domain.Shipper{CompanyName: "Speedy Express"})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, first))

	second, err := repo.Create(ctx, domain.Shipper{CompanyName: "United Package"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestMemoryRepository_Filters(t *testing.T) {
	repo := NewMemoryRepository[domain.Product]()
	ctx := context.Background()
	beverages := int64(1)

	for _, p := range []domain.Product{
		{ProductName: "Chai", CategoryID: &beverages, UnitPrice: decimal.RequireFromString("18.00")},
		{ProductName: "Chang", CategoryID: &beverages, UnitPrice: decimal.RequireFromString("19.00"), Discontinued: true},
		{ProductName: "Aniseed Syrup", UnitPrice: decimal.RequireFromString("10.00")},
	} {
		_, err := repo.Create(ctx, p)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"equality on pointer column", Where(Eq("category_id", beverages)), []string{"Chai", "Chang"}},
		{"null column", Where(Eq("category_id", nil)), []string{"Aniseed Syrup"}},
		{"not null column", Where(Ne("category_id", nil)), []string{"Chai", "Chang"}},
		{"decimal comparison with string operand", Where(Gt("unit_price", "18.5")), []string{"Chang"}},
		{"decimal comparison with int operand", Where(Lte("unit_price", 18)), []string{"Chai", "Aniseed Syrup"}},
		{"bool equality", Where(Eq("discontinued", true)), []string{"Chang"}},
		{"like is case-insensitive", Where(Like("product_name", "ch%")), []string{"Chai", "Chang"}},
		{"like single character", Where(Like("product_name", "Cha_")), []string{"Chai"}},
		{"like escapes regexp metacharacters", Where(Like("product_name", "Chai.*")), nil},
		{"conjunction", Where(Like("product_name", "C%"), Eq("discontinued", false)), []string{"Chai"}},
		{"id range", Where(Gte("id", 2), Lt("id", 3)), []string{"Chang"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := repo.Find(ctx, tt.filter, false)
			require.NoError(t, err)
			var names []string
			for _, r := range rows {
				names = append(names, r.ProductName)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestMemoryRepository_TimeFilter(t *testing.T) {
	repo := NewMemoryRepository[domain.Order]()
	ctx := context.Background()

	early := time.Date(1996, 7, 4, 0, 0, 0, 0, time.UTC)
	late := time.Date(1998, 5, 6, 0, 0, 0, 0, time.UTC)
	_, err := repo.Create(ctx, domain.Order{CustomerID: 1, OrderDate: &early})
	require.NoError(t, err)
	_, err = repo.Create(ctx, domain.Order{CustomerID: 1, OrderDate: &late})
	require.NoError(t, err)

	rows, err := repo.Find(ctx, Where(Gt("order_date", time.Date(1997, 1, 1, 0, 0, 0, 0, time.UTC))), false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, late.Equal(*rows[0].OrderDate))
}

func TestMemoryRepository_InvalidFilters(t *testing.T) {
	repo := NewMemoryRepository[domain.Category]()
	ctx := context.Background()
	_, err := repo.Create(ctx, domain.Category{CategoryName: "Beverages"})
	require.NoError(t, err)

	_, err = repo.Find(ctx, Where(Eq("no_such_column", 1)), false)
	assert.ErrorIs(t, err, ErrInvalidFilter)

	// Incompatible operand types cannot be ordered
	_, err = repo.Find(ctx, Where(Gt("category_name", 5)), false)
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = repo.Find(ctx, Where(Like("id", "1%")), false)
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestMemoryRepository_CancelledContext(t *testing.T) {
	repo := NewMemoryRepository[domain.Region]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Create(ctx, domain.Region{RegionDescription: "Eastern"})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.GetAll(ctx, false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryRepository_PointerFieldsAreDetached(t *testing.T) {
	repo := NewMemoryRepository[domain.Employee]()
	ctx := context.Background()

	manager := int64(1)
	created, err := repo.Create(ctx, domain.Employee{LastName: "Leverling", ReportsTo: &manager})
	require.NoError(t, err)
	manager = 5

	found, err := repo.Get(ctx, ByID(created.ID), false)
	require.NoError(t, err)
	require.NotNil(t, found.ReportsTo)
	assert.Equal(t, int64(1), *found.ReportsTo)

	*found.ReportsTo = 999
	again, err := repo.Get(ctx, ByID(created.ID), false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), *again.ReportsTo)
}

func TestMemoryRepository_IDRules(t *testing.T) {
	repo := NewMemoryRepository[domain.Region]()
	ctx := context.Background()

	_, err := repo.Create(ctx, domain.Region{ID: 3, RegionDescription: "Eastern"})
	assert.ErrorIs(t, err, ErrInvalidEntity)

	_, err = repo.Update(ctx, domain.Region{RegionDescription: "Eastern"})
	assert.ErrorIs(t, err, ErrInvalidEntity)
}
