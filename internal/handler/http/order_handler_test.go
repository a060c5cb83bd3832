package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	handler "github.com/vasiliy-maslov/shop-backend/internal/handler/http"
	"github.com/vasiliy-maslov/shop-backend/internal/order"
	"github.com/vasiliy-maslov/shop-backend/internal/user"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, input order.CreateInput) (*order.Order, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func newOrderRouter(service order.Service) chi.Router {
	router := chi.NewRouter()
	handler.NewOrderHandler(service).RegisterRoutes(router)
	return router
}

const createOrderBody = `{
	"userId": "customer-1",
	"paymentMethod": "card",
	"shippingAddress": {
		"fullName": "John Customer",
		"addressLine1": "1 Main St",
		"city": "Springfield",
		"state": "IL",
		"zipCode": "62701",
		"phone": "555-0100"
	},
	"items": [
		{"productId": "1", "quantity": 2},
		{"productId": "3", "quantity": 1}
	]
}`

func sampleOrder() *order.Order {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &order.Order{
		ID:     "order-abc123def4",
		UserID: "customer-1",
		Status: order.StatusProcessing,
		ShippingAddress: order.ShippingAddress{
			FullName:     "John Customer",
			AddressLine1: "1 Main St",
			City:         "Springfield",
			State:        "IL",
			ZipCode:      "62701",
			Phone:        "555-0100",
		},
		TotalAmount:    61.97,
		PaymentStatus:  order.PaymentStatusPaid,
		PaymentMethod:  "card",
		TrackingNumber: "TRK-1A2B3C4D",
		Items: []order.OrderItem{
			{ID: 1, OrderID: "order-abc123def4", ProductID: "1", ProductName: "Fast & Furious Nissan Skyline GT-R", Quantity: 2, PriceAtTime: 5.99},
			{ID: 2, OrderID: "order-abc123def4", ProductID: "3", ProductName: "Super Speed Blastway Track Set", Quantity: 1, PriceAtTime: 49.99},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderHandler_CreateOrder_Success(t *testing.T) {
	mockService := new(MockOrderService)
	router := newOrderRouter(mockService)

	created := sampleOrder()
	mockService.On("Create", mock.Anything, mock.AnythingOfType("order.CreateInput")).
		Return(created, nil).
		Once()

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(createOrderBody))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var responsePayload handler.OrderResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &responsePayload))
	require.Equal(t, created.ID, responsePayload.ID)
	require.Equal(t, "processing", responsePayload.Status)
	require.Equal(t, "paid", responsePayload.PaymentStatus)
	require.Equal(t, 61.97, responsePayload.TotalAmount)
	require.Equal(t, "TRK-1A2B3C4D", responsePayload.TrackingNumber)
	require.Len(t, responsePayload.Items, 2)
	require.Equal(t, 5.99, responsePayload.Items[0].PriceAtTime)
	require.Equal(t, "John Customer", responsePayload.ShippingAddress.FullName)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_CreateOrder_MapsRequestToInput(t *testing.T) {
	mockService := new(MockOrderService)
	router := newOrderRouter(mockService)

	expectedInput := order.CreateInput{
		UserID:        "customer-1",
		PaymentMethod: "card",
		ShippingAddress: order.ShippingAddress{
			FullName:     "John Customer",
			AddressLine1: "1 Main St",
			City:         "Springfield",
			State:        "IL",
			ZipCode:      "62701",
			Phone:        "555-0100",
		},
		Items: []order.ItemInput{
			{ProductID: "1", Quantity: 2},
			{ProductID: "3", Quantity: 1},
		},
	}

	mockService.On("Create", mock.Anything, expectedInput).
		Return(sampleOrder(), nil).
		Once()

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(createOrderBody))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_CreateOrder_UserNotFound(t *testing.T) {
	mockService := new(MockOrderService)
	router := newOrderRouter(mockService)

	mockService.On("Create", mock.Anything, mock.AnythingOfType("order.CreateInput")).
		Return(nil, user.ErrNotFound).
		Once()

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(createOrderBody))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)

	var errorPayload map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errorPayload))
	require.Equal(t, "User not found", errorPayload["error"])
	mockService.AssertExpectations(t)
}

func TestOrderHandler_CreateOrder_InvalidProducts(t *testing.T) {
	mockService := new(MockOrderService)
	router := newOrderRouter(mockService)

	mockService.On("Create", mock.Anything, mock.AnythingOfType("order.CreateInput")).
		Return(nil, order.ErrProductsInvalid).
		Once()

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(createOrderBody))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var errorPayload map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errorPayload))
	require.Equal(t, "One or more products are invalid", errorPayload["error"])
	mockService.AssertExpectations(t)
}

func TestOrderHandler_CreateOrder_InsufficientStock(t *testing.T) {
	mockService := new(MockOrderService)
	router := newOrderRouter(mockService)

	mockService.On("Create", mock.Anything, mock.AnythingOfType("order.CreateInput")).
		Return(nil, &order.InsufficientStockError{ProductName: "Super Speed Blastway Track Set"}).
		Once()

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(createOrderBody))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var errorPayload map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errorPayload))
	require.Equal(t, "Insufficient stock for Super Speed Blastway Track Set", errorPayload["error"])
	mockService.AssertExpectations(t)
}

func TestOrderHandler_CreateOrder_ValidationError(t *testing.T) {
	mockService := new(MockOrderService)
	router := newOrderRouter(mockService)

	body := `{"paymentMethod": "card", "items": []}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var errorPayload handler.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errorPayload))
	require.Equal(t, "Validation failed", errorPayload.Error)
	require.Contains(t, errorPayload.Details, "UserID")
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderHandler_ListOrders_Success(t *testing.T) {
	mockService := new(MockOrderService)
	router := newOrderRouter(mockService)

	orders := []order.Order{*sampleOrder()}
	mockService.On("ListByUser", mock.Anything, "customer-1").
		Return(orders, nil).
		Once()

	req := httptest.NewRequest(http.MethodGet, "/orders/customer-1", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var responsePayload []handler.OrderResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &responsePayload))
	require.Len(t, responsePayload, 1)
	require.Equal(t, "order-abc123def4", responsePayload[0].ID)
	require.Len(t, responsePayload[0].Items, 2)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_ListOrders_UserNotFound(t *testing.T) {
	mockService := new(MockOrderService)
	router := newOrderRouter(mockService)

	mockService.On("ListByUser", mock.Anything, "ghost").
		Return(nil, user.ErrNotFound).
		Once()

	req := httptest.NewRequest(http.MethodGet, "/orders/ghost", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)

	var errorPayload map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errorPayload))
	require.Equal(t, "User not found", errorPayload["error"])
	mockService.AssertExpectations(t)
}
