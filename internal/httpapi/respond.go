package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/priyanka5064/ecom-backend/internal/catalog"
	"github.com/priyanka5064/ecom-backend/internal/repository"
	"github.com/priyanka5064/ecom-backend/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// CartResponse is the success envelope for all cart endpoints.
type CartResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Cart    any    `json:"cart"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError translates the service's typed failures into HTTP
// statuses. Anything unexpected is logged message-only and reported as a
// generic error, never surfaced verbatim to the caller.
func handleServiceError(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, repository.ErrCartNotFound):
		respondError(w, http.StatusNotFound, "cart_not_found", "cart not found")
	case errors.Is(err, service.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "item_not_found", "product not found in cart")
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", "invalid productId or quantity")
	default:
		log.Error().Msg(err.Error())
		respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}
