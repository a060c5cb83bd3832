package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/shop-backend/internal/cart"
	"github.com/vasiliy-maslov/shop-backend/internal/catalog"
	"github.com/vasiliy-maslov/shop-backend/internal/user"
)

type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1,lte=99"`
}

type UpdateCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity" validate:"required,gte=1,lte=99"`
}

type CartItemResponse struct {
	Product  ProductResponse `json:"product"`
	Quantity int             `json:"quantity"`
}

type CartHandler struct {
	service  cart.Service
	validate *validator.Validate
}

func NewCartHandler(service cart.Service) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *CartHandler) RegisterRoutes(router chi.Router) {
	router.Get("/cart/{userId}", h.handleGetCart)
	router.Post("/cart/{userId}/items", h.handleAddItem)
	router.Patch("/cart/{userId}/items/{productId}", h.handleUpdateItem)
	router.Delete("/cart/{userId}/items/{productId}", h.handleRemoveItem)
}

func (h *CartHandler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	items, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		h.respondCartError(w, err, "Failed to get cart")
		return
	}

	respondWithJSON(w, http.StatusOK, toCartItemResponses(items))
}

func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var requestPayload AddCartItemRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		log.Error().Err(err).Msg("Failed to decode add cart item request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationError(w, err)
		return
	}

	items, err := h.service.AddItem(r.Context(), userID, requestPayload.ProductID, requestPayload.Quantity)
	if err != nil {
		h.respondCartError(w, err, "Failed to add cart item")
		return
	}

	respondWithJSON(w, http.StatusOK, toCartItemResponses(items))
}

func (h *CartHandler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	productID := chi.URLParam(r, "productId")

	var requestPayload UpdateCartItemRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		log.Error().Err(err).Msg("Failed to decode update cart item request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationError(w, err)
		return
	}

	items, err := h.service.UpdateItem(r.Context(), userID, productID, requestPayload.Quantity)
	if err != nil {
		h.respondCartError(w, err, "Failed to update cart item")
		return
	}

	respondWithJSON(w, http.StatusOK, toCartItemResponses(items))
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	productID := chi.URLParam(r, "productId")

	items, err := h.service.RemoveItem(r.Context(), userID, productID)
	if err != nil {
		h.respondCartError(w, err, "Failed to remove cart item")
		return
	}

	respondWithJSON(w, http.StatusOK, toCartItemResponses(items))
}

func (h *CartHandler) respondCartError(w http.ResponseWriter, err error, fallbackMessage string) {
	statusCode := mapErrorToStatusCode(err)

	var clientMessage string
	switch {
	case errors.Is(err, user.ErrNotFound):
		clientMessage = "User not found"
	case errors.Is(err, catalog.ErrProductNotFound):
		clientMessage = "Product not found"
	case errors.Is(err, cart.ErrItemNotFound):
		clientMessage = "Cart item not found"
	default:
		log.Error().Err(err).Msg("Cart operation failed via service")
		clientMessage = fallbackMessage
	}

	respondWithError(w, statusCode, clientMessage)
}

func toCartItemResponses(items []cart.Item) []CartItemResponse {
	responsePayload := make([]CartItemResponse, 0, len(items))
	for _, item := range items {
		responsePayload = append(responsePayload, CartItemResponse{
			Product:  toProductResponse(item.Product),
			Quantity: item.Quantity,
		})
	}
	return responsePayload
}
