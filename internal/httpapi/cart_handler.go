package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/priyanka5064/ecom-backend/internal/domain"
	"github.com/priyanka5064/ecom-backend/pkg/logger"
)

// CartService is what the cart endpoints need from the service layer.
type CartService interface {
	AddItem(ctx context.Context, userID string, productID int64, quantity int) (*domain.Cart, error)
	GetCart(ctx context.Context, userID string) (*domain.CartDetail, error)
	UpdateQuantity(ctx context.Context, userID string, productID int64, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID string, productID int64) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID string) (*domain.Cart, error)
}

type CartHandler struct {
	service CartService
	timeout time.Duration
	log     zerolog.Logger
}

func NewCartHandler(service CartService, timeout time.Duration, log zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		timeout: timeout,
		log:     log,
	}
}

type AddItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type RemoveItemRequest struct {
	ProductID int64 `json:"productId"`
}

// AddItem handles POST /cart. A zero or omitted quantity defaults to 1;
// beyond that the value is passed through as supplied.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cart, err := h.service.AddItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		handleServiceError(w, logger.Ctx(r.Context(), h.log), err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponse{Success: true, Cart: cart})
}

// GetCart handles GET /cart, returning the cart with products expanded.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	cart, err := h.service.GetCart(ctx, userID)
	if err != nil {
		handleServiceError(w, logger.Ctx(r.Context(), h.log), err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponse{Success: true, Cart: cart})
}

// UpdateQuantity handles PUT and PATCH /cart. Both productId and a
// quantity greater than 1 are required.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == 0 || req.Quantity <= 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "invalid productId or quantity")
		return
	}

	cart, err := h.service.UpdateQuantity(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		handleServiceError(w, logger.Ctx(r.Context(), h.log), err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponse{
		Success: true,
		Message: "quantity updated successfully",
		Cart:    cart,
	})
}

// RemoveItem handles DELETE /cart.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req RemoveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "invalid productId")
		return
	}

	cart, err := h.service.RemoveItem(ctx, userID, req.ProductID)
	if err != nil {
		handleServiceError(w, logger.Ctx(r.Context(), h.log), err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponse{
		Success: true,
		Message: "product removed from cart successfully",
		Cart:    cart,
	})
}

// ClearCart handles DELETE /cart/clear. The cart is emptied, not deleted.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	cart, err := h.service.ClearCart(ctx, userID)
	if err != nil {
		handleServiceError(w, logger.Ctx(r.Context(), h.log), err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponse{
		Success: true,
		Message: "cart cleared successfully",
		Cart:    cart,
	})
}
