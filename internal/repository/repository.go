package repository

import (
	"context"
	"errors"

	"github.com/priyanka5064/ecom-backend/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// CartRepository defines the interface for cart data operations.
// The service loads a cart, mutates it in memory and persists it whole,
// so the repository stays a findByUser/save pair.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
}
