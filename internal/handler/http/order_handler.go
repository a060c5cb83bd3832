package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/shop-backend/internal/order"
	"github.com/vasiliy-maslov/shop-backend/internal/user"
)

type ShippingAddressPayload struct {
	FullName     string `json:"fullName" validate:"required"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	ZipCode      string `json:"zipCode" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
}

type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1,lte=99"`
}

type CreateOrderRequest struct {
	UserID          string                 `json:"userId" validate:"required"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required"`
	ShippingAddress ShippingAddressPayload `json:"shippingAddress"`
	Items           []OrderItemRequest     `json:"items" validate:"dive"`
}

type OrderItemResponse struct {
	ID          int64   `json:"id"`
	OrderID     string  `json:"orderId"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"priceAtTime"`
}

type OrderResponse struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"userId"`
	Status          string                 `json:"status"`
	TotalAmount     float64                `json:"totalAmount"`
	ShippingAddress ShippingAddressPayload `json:"shippingAddress"`
	PaymentStatus   string                 `json:"paymentStatus"`
	PaymentMethod   string                 `json:"paymentMethod"`
	TrackingNumber  string                 `json:"trackingNumber"`
	Items           []OrderItemResponse    `json:"items"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

type OrderHandler struct {
	service  order.Service
	validate *validator.Validate
}

func NewOrderHandler(service order.Service) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Get("/orders/{userId}", h.handleListOrders)
	router.Post("/orders", h.handleCreateOrder)
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	orders, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)

		var clientMessage string
		if errors.Is(err, user.ErrNotFound) {
			clientMessage = "User not found"
		} else {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to list orders via service")
			clientMessage = "Failed to list orders"
		}

		respondWithError(w, statusCode, clientMessage)
		return
	}

	responsePayload := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		responsePayload = append(responsePayload, toOrderResponse(o))
	}

	respondWithJSON(w, http.StatusOK, responsePayload)
}

func (h *OrderHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateOrderRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		log.Error().Err(err).Msg("Failed to decode create order request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationError(w, err)
		return
	}

	input := order.CreateInput{
		UserID:        requestPayload.UserID,
		PaymentMethod: requestPayload.PaymentMethod,
		ShippingAddress: order.ShippingAddress{
			FullName:     requestPayload.ShippingAddress.FullName,
			AddressLine1: requestPayload.ShippingAddress.AddressLine1,
			AddressLine2: requestPayload.ShippingAddress.AddressLine2,
			City:         requestPayload.ShippingAddress.City,
			State:        requestPayload.ShippingAddress.State,
			ZipCode:      requestPayload.ShippingAddress.ZipCode,
			Phone:        requestPayload.ShippingAddress.Phone,
		},
	}
	for _, item := range requestPayload.Items {
		input.Items = append(input.Items, order.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)

		var clientMessage string
		var stockErr *order.InsufficientStockError
		switch {
		case errors.Is(err, user.ErrNotFound):
			clientMessage = "User not found"
		case errors.Is(err, order.ErrProductsInvalid):
			clientMessage = "One or more products are invalid"
		case errors.As(err, &stockErr):
			clientMessage = fmt.Sprintf("Insufficient stock for %s", stockErr.ProductName)
		default:
			log.Error().Err(err).Msg("Failed to create order via service")
			clientMessage = "Failed to create order"
		}

		respondWithError(w, statusCode, clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, toOrderResponse(*created))
}

func toOrderResponse(o order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
		})
	}

	return OrderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		ShippingAddress: ShippingAddressPayload{
			FullName:     o.ShippingAddress.FullName,
			AddressLine1: o.ShippingAddress.AddressLine1,
			AddressLine2: o.ShippingAddress.AddressLine2,
			City:         o.ShippingAddress.City,
			State:        o.ShippingAddress.State,
			ZipCode:      o.ShippingAddress.ZipCode,
			Phone:        o.ShippingAddress.Phone,
		},
		PaymentStatus:  o.PaymentStatus,
		PaymentMethod:  o.PaymentMethod,
		TrackingNumber: o.TrackingNumber,
		Items:          items,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}
