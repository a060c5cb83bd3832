package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/shop-backend/internal/cart"
	"github.com/vasiliy-maslov/shop-backend/internal/catalog"
	handler "github.com/vasiliy-maslov/shop-backend/internal/handler/http"
	"github.com/vasiliy-maslov/shop-backend/internal/user"
)

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, userID string) ([]cart.Item, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Item), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID, productID string, quantity int) ([]cart.Item, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Item), args.Error(1)
}

func (m *MockCartService) UpdateItem(ctx context.Context, userID, productID string, quantity int) ([]cart.Item, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Item), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, productID string) ([]cart.Item, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Item), args.Error(1)
}

func newCartRouter(service cart.Service) chi.Router {
	router := chi.NewRouter()
	handler.NewCartHandler(service).RegisterRoutes(router)
	return router
}

func sampleCartItems() []cart.Item {
	return []cart.Item{
		{
			Product:  catalog.Product{ID: "1", Name: "Fast & Furious Nissan Skyline GT-R", Price: 5.99, Stock: 50},
			Quantity: 2,
		},
	}
}

func TestCartHandler_GetCart_Success(t *testing.T) {
	mockService := new(MockCartService)
	router := newCartRouter(mockService)

	mockService.On("GetCart", mock.Anything, "customer-1").
		Return(sampleCartItems(), nil).
		Once()

	req := httptest.NewRequest(http.MethodGet, "/cart/customer-1", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var responsePayload []handler.CartItemResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &responsePayload))
	require.Len(t, responsePayload, 1)
	require.Equal(t, "1", responsePayload[0].Product.ID)
	require.Equal(t, 5.99, responsePayload[0].Product.Price)
	require.Equal(t, 2, responsePayload[0].Quantity)
	mockService.AssertExpectations(t)
}

func TestCartHandler_GetCart_UserNotFound(t *testing.T) {
	mockService := new(MockCartService)
	router := newCartRouter(mockService)

	mockService.On("GetCart", mock.Anything, "ghost").
		Return(nil, user.ErrNotFound).
		Once()

	req := httptest.NewRequest(http.MethodGet, "/cart/ghost", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)

	var errorPayload map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errorPayload))
	require.Equal(t, "User not found", errorPayload["error"])
	mockService.AssertExpectations(t)
}

func TestCartHandler_AddItem_Success(t *testing.T) {
	mockService := new(MockCartService)
	router := newCartRouter(mockService)

	mockService.On("AddItem", mock.Anything, "customer-1", "1", 2).
		Return(sampleCartItems(), nil).
		Once()

	body := `{"productId": "1", "quantity": 2}`
	req := httptest.NewRequest(http.MethodPost, "/cart/customer-1/items", strings.NewReader(body))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var responsePayload []handler.CartItemResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &responsePayload))
	require.Len(t, responsePayload, 1)
	mockService.AssertExpectations(t)
}

func TestCartHandler_AddItem_ProductNotFound(t *testing.T) {
	mockService := new(MockCartService)
	router := newCartRouter(mockService)

	mockService.On("AddItem", mock.Anything, "customer-1", "missing", 2).
		Return(nil, catalog.ErrProductNotFound).
		Once()

	body := `{"productId": "missing", "quantity": 2}`
	req := httptest.NewRequest(http.MethodPost, "/cart/customer-1/items", strings.NewReader(body))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)

	var errorPayload map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errorPayload))
	require.Equal(t, "Product not found", errorPayload["error"])
	mockService.AssertExpectations(t)
}

func TestCartHandler_AddItem_QuantityOutOfRange(t *testing.T) {
	mockService := new(MockCartService)
	router := newCartRouter(mockService)

	for _, body := range []string{
		`{"productId": "1", "quantity": 0}`,
		`{"productId": "1", "quantity": 100}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/cart/customer-1/items", strings.NewReader(body))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code, "body: %s", body)

		var errorPayload handler.ValidationErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errorPayload))
		require.Equal(t, "Validation failed", errorPayload.Error)
		require.Contains(t, errorPayload.Details, "Quantity")
	}
	mockService.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartHandler_UpdateItem_ItemNotFound(t *testing.T) {
	mockService := new(MockCartService)
	router := newCartRouter(mockService)

	mockService.On("UpdateItem", mock.Anything, "customer-1", "1", 5).
		Return(nil, cart.ErrItemNotFound).
		Once()

	body := `{"quantity": 5}`
	req := httptest.NewRequest(http.MethodPatch, "/cart/customer-1/items/1", strings.NewReader(body))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)

	var errorPayload map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errorPayload))
	require.Equal(t, "Cart item not found", errorPayload["error"])
	mockService.AssertExpectations(t)
}

func TestCartHandler_UpdateItem_Success(t *testing.T) {
	mockService := new(MockCartService)
	router := newCartRouter(mockService)

	updated := []cart.Item{
		{Product: catalog.Product{ID: "1", Name: "Skyline", Price: 5.99}, Quantity: 5},
	}

	mockService.On("UpdateItem", mock.Anything, "customer-1", "1", 5).
		Return(updated, nil).
		Once()

	body := `{"quantity": 5}`
	req := httptest.NewRequest(http.MethodPatch, "/cart/customer-1/items/1", strings.NewReader(body))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var responsePayload []handler.CartItemResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &responsePayload))
	require.Len(t, responsePayload, 1)
	require.Equal(t, 5, responsePayload[0].Quantity)
	mockService.AssertExpectations(t)
}

func TestCartHandler_RemoveItem_Success(t *testing.T) {
	mockService := new(MockCartService)
	router := newCartRouter(mockService)

	mockService.On("RemoveItem", mock.Anything, "customer-1", "1").
		Return([]cart.Item{}, nil).
		Once()

	req := httptest.NewRequest(http.MethodDelete, "/cart/customer-1/items/1", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, "[]", rr.Body.String())
	mockService.AssertExpectations(t)
}
