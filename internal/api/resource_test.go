package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/homelab/northwind/internal/domain"
	"github.com/jbweber/homelab/northwind/internal/repository"
)

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) GetAll(ctx context.Context, tracked bool) ([]domain.Category, error) {
	args := m.Called(ctx, tracked)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) Find(ctx context.Context, filter repository.Filter, tracked bool) ([]domain.Category, error) {
	args := m.Called(ctx, filter, tracked)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) Get(ctx context.Context, filter repository.Filter, tracked bool) (domain.Category, error) {
	args := m.Called(ctx, filter, tracked)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) Exists(ctx context.Context, filter repository.Filter, tracked bool) (bool, error) {
	args := m.Called(ctx, filter, tracked)
	return args.Bool(0), args.Error(1)
}

func (m *mockCategoryRepo) Create(ctx context.Context, entity domain.Category) (domain.Category, error) {
	args := m.Called(ctx, entity)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) Update(ctx context.Context, entity domain.Category) (domain.Category, error) {
	args := m.Called(ctx, entity)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, entity domain.Category) error {
	return m.Called(ctx, entity).Error(0)
}

func TestCreateCategory_ThenDuplicate(t *testing.T) {
	s := newTestServer(t, nil, Options{})
	body := map[string]any{"categoryName": "Beverages", "description": "Soft drinks, coffees, teas"}

	w, res := s.do(http.MethodPost, "/api/Categories", s.admin(), body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, res.IsSuccess)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, res.ErrorMessages)

	var created CategoryDTO
	require.NoError(t, json.Unmarshal(res.Data, &created))
	assert.Positive(t, created.ID)
	assert.Equal(t, "Beverages", created.CategoryName)

	w, res = s.do(http.MethodPost, "/api/Categories", s.admin(), body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, res.IsSuccess)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, []string{"Category with name Beverages already exists"}, res.ErrorMessages)
	assert.Nil(t, res.Data)
}

func TestGet_NotFound(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	w, res := s.do(http.MethodGet, "/api/Customers/9999", s.customer(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, res.IsSuccess)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, []string{"Customer with id 9999 not found"}, res.ErrorMessages)
}

func TestGet_RoundTrip(t *testing.T) {
	s := newTestServer(t, nil, Options{})
	id := s.create("/api/Shippers", map[string]any{"companyName": "Speedy Express", "phone": "(503) 555-9831"})

	w, res := s.do(http.MethodGet, "/api/Shippers/"+itoa(id), s.customer(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got ShipperDTO
	require.NoError(t, json.Unmarshal(res.Data, &got))
	assert.Equal(t, ShipperDTO{ID: id, CompanyName: "Speedy Express", Phone: "(503) 555-9831"}, got)
}

func TestGet_InvalidID(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	for _, id := range []string{"abc", "0", "-4"} {
		w, res := s.do(http.MethodGet, "/api/Categories/"+id, s.customer(), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
		assert.False(t, res.IsSuccess, id)
	}
}

func TestUpdate_IDMismatchNeverReachesRepository(t *testing.T) {
	repos := repository.NewMemoryNorthwind()
	categories := &mockCategoryRepo{}
	repos.Categories = categories
	s := newTestServer(t, repos, Options{})

	w, res := s.do(http.MethodPut, "/api/Categories/5", s.admin(), map[string]any{"id": 6, "categoryName": "Seafood"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"ids do not match"}, res.ErrorMessages)

	w, res = s.do(http.MethodPut, "/api/Categories/5", s.admin(), map[string]any{"categoryName": "Seafood"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"ids do not match"}, res.ErrorMessages)

	categories.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
	categories.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdate(t *testing.T) {
	s := newTestServer(t, nil, Options{})
	id := s.create("/api/Categories", map[string]any{"categoryName": "Produce"})

	w, res := s.do(http.MethodPut, "/api/Categories/"+itoa(id), s.admin(),
		map[string]any{"id": id, "categoryName": "Produce", "description": "Dried fruit and bean curd"})
	require.Equal(t, http.StatusOK, w.Code)
	var got CategoryDTO
	require.NoError(t, json.Unmarshal(res.Data, &got))
	assert.Equal(t, "Dried fruit and bean curd", got.Description)

	w, res = s.do(http.MethodPut, "/api/Categories/77", s.admin(), map[string]any{"id": 77, "categoryName": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []string{"Category with id 77 not found"}, res.ErrorMessages)
}

func TestGetAll_EmptyListPolicy(t *testing.T) {
	strict := newTestServer(t, nil, Options{EmptyListNotFound: true})
	w, res := strict.do(http.MethodGet, "/api/OrderDetails", strict.customer(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []string{"No order details found"}, res.ErrorMessages)

	lenient := newTestServer(t, nil, Options{})
	w, res = lenient.do(http.MethodGet, "/api/OrderDetails", lenient.customer(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(res.Data))
}

func TestGetAll_OrderedByID(t *testing.T) {
	s := newTestServer(t, nil, Options{EmptyListNotFound: true})
	s.create("/api/Regions", map[string]any{"regionDescription": "Eastern"})
	s.create("/api/Regions", map[string]any{"regionDescription": "Western"})

	w, res := s.do(http.MethodGet, "/api/Regions", s.customer(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got []RegionDTO
	require.NoError(t, json.Unmarshal(res.Data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Eastern", got[0].RegionDescription)
	assert.Equal(t, "Western", got[1].RegionDescription)
}

func TestDelete_Twice(t *testing.T) {
	s := newTestServer(t, nil, Options{})
	id := s.create("/api/Categories", map[string]any{"categoryName": "Confections"})

	w, res := s.do(http.MethodDelete, "/api/Categories/"+itoa(id), s.admin(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, res.IsSuccess)
	assert.Nil(t, res.Data)

	w, res = s.do(http.MethodDelete, "/api/Categories/"+itoa(id), s.admin(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []string{"Category with id " + itoa(id) + " not found"}, res.ErrorMessages)
}

func TestCreate_ValidationErrors(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	tests := []struct {
		name string
		path string
		body string
		want []string
	}{
		{"missing required", "/api/Categories", `{}`, []string{"categoryName: required field"}},
		{"too long", "/api/Categories", `{"categoryName":"abcdefghijklmnopqrstuvwxyz"}`, []string{"categoryName: must be at most 15"}},
		{"malformed", "/api/Categories", `{"categoryName":`, []string{"Invalid JSON"}},
		{"wrong type", "/api/Categories", `{"categoryName":12}`, []string{"Invalid value for categoryName"}},
		{"empty body", "/api/Categories", ``, []string{"Request body is required"}},
		{"negative price", "/api/Products", `{"productName":"Chai","unitPrice":-1}`, []string{"unitPrice: must be at least 0"}},
		{"discount above one", "/api/OrderDetails", `{"orderId":1,"productId":1,"quantity":1,"discount":1.5}`, []string{"discount: must be at most 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, res := s.do(http.MethodPost, tt.path, s.admin(), tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, res.ErrorMessages)
		})
	}
}

func TestCreate_MissingReference(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	w, res := s.do(http.MethodPost, "/api/Orders", s.admin(), map[string]any{"customerId": 42, "freight": "12.50"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Customer with id 42 not found"}, res.ErrorMessages)

	w, res = s.do(http.MethodPost, "/api/Territories", s.admin(), map[string]any{"territoryDescription": "Boston", "regionId": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Region with id 3 not found"}, res.ErrorMessages)
}

func TestCreateOrderDetail_PairIsUnique(t *testing.T) {
	s := newTestServer(t, nil, Options{})
	customerID := s.create("/api/Customers", map[string]any{"companyName": "Ernst Handel"})
	orderID := s.create("/api/Orders", map[string]any{"customerId": customerID, "freight": "3.25"})
	chai := s.create("/api/Products", map[string]any{"productName": "Chai", "unitPrice": "18.00"})
	chang := s.create("/api/Products", map[string]any{"productName": "Chang", "unitPrice": "19.00"})

	line := map[string]any{"orderId": orderID, "productId": chai, "unitPrice": "18.00", "quantity": 2}
	s.create("/api/OrderDetails", line)

	w, res := s.do(http.MethodPost, "/api/OrderDetails", s.admin(), line)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{
		"OrderDetail with order id " + itoa(orderID) + " and product id " + itoa(chai) + " already exists",
	}, res.ErrorMessages)

	// same order, different product
	s.create("/api/OrderDetails", map[string]any{"orderId": orderID, "productId": chang, "unitPrice": "19.00", "quantity": 1})
	// same product, different order
	other := s.create("/api/Orders", map[string]any{"customerId": customerID, "freight": "1.10"})
	s.create("/api/OrderDetails", map[string]any{"orderId": other, "productId": chai, "unitPrice": "18.00", "quantity": 5})
}

func TestSubResources(t *testing.T) {
	s := newTestServer(t, nil, Options{EmptyListNotFound: true})
	customerID := s.create("/api/Customers", map[string]any{"companyName": "Alfreds Futterkiste"})
	shipperID := s.create("/api/Shippers", map[string]any{"companyName": "United Package"})
	orderID := s.create("/api/Orders", map[string]any{"customerId": customerID, "shipVia": shipperID, "freight": "29.46"})

	w, res := s.do(http.MethodGet, "/api/Customers/"+itoa(customerID)+"/Orders", s.customer(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []OrderDTO
	require.NoError(t, json.Unmarshal(res.Data, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0].ID)
	assert.Equal(t, "29.46", orders[0].Freight.StringFixed(2))

	w, res = s.do(http.MethodGet, "/api/Shippers/"+itoa(shipperID)+"/Orders", s.customer(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, res = s.do(http.MethodGet, "/api/Orders/"+itoa(orderID)+"/OrderDetails", s.customer(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []string{"No order details found"}, res.ErrorMessages)

	w, res = s.do(http.MethodGet, "/api/Customers/99/Orders", s.customer(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []string{"Customer with id 99 not found"}, res.ErrorMessages)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	w, res := s.do(http.MethodGet, "/api/Nothing", s.admin(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, res.IsSuccess)
	assert.Equal(t, []string{"Resource not found"}, res.ErrorMessages)

	w, res = s.do(http.MethodPatch, "/api/Categories/1", s.admin(), nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestPanicRecovery(t *testing.T) {
	repos := repository.NewMemoryNorthwind()
	categories := &mockCategoryRepo{}
	categories.On("GetAll", mock.Anything, false).Run(func(mock.Arguments) { panic("boom") })
	repos.Categories = categories
	s := newTestServer(t, repos, Options{})

	w, res := s.do(http.MethodGet, "/api/Categories", s.admin(), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, []string{internalErrorMessage}, res.ErrorMessages)
}

func TestRepositoryErrorIsNotLeaked(t *testing.T) {
	repos := repository.NewMemoryNorthwind()
	categories := &mockCategoryRepo{}
	categories.On("GetAll", mock.Anything, false).Return([]domain.Category(nil), assert.AnError)
	repos.Categories = categories
	s := newTestServer(t, repos, Options{})

	w, res := s.do(http.MethodGet, "/api/Categories", s.admin(), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, []string{internalErrorMessage}, res.ErrorMessages)
	categories.AssertExpectations(t)
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "order details", humanize("OrderDetails"))
	assert.Equal(t, "categories", humanize("Categories"))
}
