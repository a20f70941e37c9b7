package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/priyanka5064/ecom-backend/internal/catalog"
	"github.com/priyanka5064/ecom-backend/internal/domain"
	"github.com/priyanka5064/ecom-backend/pkg/logger"
)

// ProductStore is what the catalog endpoints need from the repository.
type ProductStore interface {
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) (int64, error)
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type ProductHandler struct {
	store   ProductStore
	timeout time.Duration
	log     zerolog.Logger
}

func NewProductHandler(store ProductStore, timeout time.Duration, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		store:   store,
		timeout: timeout,
		log:     log,
	}
}

type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
}

type ProductsResponse struct {
	Success  bool              `json:"success"`
	Products []*domain.Product `json:"products"`
}

type ProductResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Product *domain.Product `json:"product,omitempty"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.store.GetAllProducts(ctx)
	if err != nil {
		h.handleStoreError(ctx, w, err)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}

	respondJSON(w, http.StatusOK, ProductsResponse{Success: true, Products: products})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	product, err := h.store.GetProduct(ctx, id)
	if err != nil {
		h.handleStoreError(ctx, w, err)
		return
	}

	respondJSON(w, http.StatusOK, ProductResponse{Success: true, Product: product})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	req, ok := decodeProductRequest(w, r)
	if !ok {
		return
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	}
	if _, err := h.store.CreateProduct(ctx, product); err != nil {
		h.handleStoreError(ctx, w, err)
		return
	}

	respondJSON(w, http.StatusCreated, ProductResponse{Success: true, Product: product})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	req, ok := decodeProductRequest(w, r)
	if !ok {
		return
	}

	product := &domain.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	}
	if err := h.store.UpdateProduct(ctx, product); err != nil {
		h.handleStoreError(ctx, w, err)
		return
	}

	respondJSON(w, http.StatusOK, ProductResponse{Success: true, Product: product})
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteProduct(ctx, id); err != nil {
		h.handleStoreError(ctx, w, err)
		return
	}

	respondJSON(w, http.StatusOK, ProductResponse{Success: true, Message: "product deleted successfully"})
}

func (h *ProductHandler) handleStoreError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}
	log := logger.Ctx(ctx, h.log)
	log.Error().Msg(err.Error())
	respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return 0, false
	}
	return id, true
}

func decodeProductRequest(w http.ResponseWriter, r *http.Request) (ProductRequest, bool) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return req, false
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name is required")
		return req, false
	}
	if req.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return req, false
	}
	return req, true
}
