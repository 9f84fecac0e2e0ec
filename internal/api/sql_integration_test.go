package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/homelab/northwind/internal/audit"
	"github.com/jbweber/homelab/northwind/internal/repository"
	"github.com/jbweber/homelab/northwind/internal/testutil"
)

func TestSQL_CatalogLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := newTestServer(t, repository.NewSQLNorthwind(db, repository.WithCacheSize(16)), Options{EmptyListNotFound: true})

	categoryID := s.create("/api/Categories", map[string]any{"categoryName": "Condiments"})
	supplierID := s.create("/api/Suppliers", map[string]any{"companyName": "Exotic Liquids", "country": "UK"})
	productID := s.create("/api/Products", map[string]any{
		"productName":     "Aniseed Syrup",
		"supplierId":      supplierID,
		"categoryId":      categoryID,
		"quantityPerUnit": "12 - 550 ml bottles",
		"unitPrice":       "10.00",
		"unitsInStock":    13,
	})

	w, res := s.do(http.MethodGet, "/api/Categories/"+itoa(categoryID)+"/Products", s.customer(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products []ProductDTO
	require.NoError(t, json.Unmarshal(res.Data, &products))
	require.Len(t, products, 1)
	assert.Equal(t, productID, products[0].ID)
	assert.Equal(t, "10.00", products[0].UnitPrice.StringFixed(2))

	// a referenced category cannot be removed
	w, res = s.do(http.MethodDelete, "/api/Categories/"+itoa(categoryID), s.admin(), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Category conflicts with related records"}, res.ErrorMessages)

	w, _ = s.do(http.MethodDelete, "/api/Products/"+itoa(productID), s.admin(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodDelete, "/api/Categories/"+itoa(categoryID), s.admin(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// cached reads must not outlive the delete
	w, res = s.do(http.MethodGet, "/api/Products", s.customer(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []string{"No products found"}, res.ErrorMessages)
}

func TestSQL_OrderDetailPairIsUnique(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := newTestServer(t, repository.NewSQLNorthwind(db), Options{})

	customerID := s.create("/api/Customers", map[string]any{"companyName": "Ana Trujillo"})
	orderID := s.create("/api/Orders", map[string]any{"customerId": customerID})
	productID := s.create("/api/Products", map[string]any{"productName": "Chai", "unitPrice": "18.00"})

	line := map[string]any{"orderId": orderID, "productId": productID, "unitPrice": "18.00", "quantity": 12, "discount": 0.05}
	s.create("/api/OrderDetails", line)

	w, res := s.do(http.MethodPost, "/api/OrderDetails", s.admin(), line)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{
		"OrderDetail with order id " + itoa(orderID) + " and product id " + itoa(productID) + " already exists",
	}, res.ErrorMessages)

	// updates are left to the table's unique constraint
	otherID := s.create("/api/Products", map[string]any{"productName": "Chang", "unitPrice": "19.00"})
	second := s.create("/api/OrderDetails", map[string]any{"orderId": orderID, "productId": otherID, "unitPrice": "19.00", "quantity": 1})
	w, res = s.do(http.MethodPut, "/api/OrderDetails/"+itoa(second), s.admin(),
		map[string]any{"id": second, "orderId": orderID, "productId": productID, "unitPrice": "19.00", "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"OrderDetail already exists"}, res.ErrorMessages)
}

func TestSQL_PersistedAuditLogs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewSQLNorthwind(db)
	s := newTestServer(t, repos, Options{})
	// swap in a router whose sink persists as well as records
	a := New(repos, s.tokens, audit.Multi{s.sink, audit.NewStoreSink(repos.AuditLogs)}, Options{BcryptCost: 4})
	s.router = a.Router(nil, nil)

	s.do(http.MethodGet, "/api/Categories/12", s.admin(), nil)

	w, res := s.do(http.MethodGet, "/api/AuditLogs", s.admin(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var logs []AuditLogDTO
	require.NoError(t, json.Unmarshal(res.Data, &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "Categories.Get", logs[0].Details)
	assert.Equal(t, http.StatusNotFound, logs[0].StatusCode)
	assert.False(t, logs[0].Success)
	assert.Equal(t, "admin", logs[0].UserName)
	assert.Equal(t, "Category with id 12 not found", logs[0].ErrorMessage)

	assert.Len(t, s.sink.all(), 2)
}
