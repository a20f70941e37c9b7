package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/priyanka5064/ecom-backend/internal/cache"
	"github.com/priyanka5064/ecom-backend/internal/domain"
	"github.com/priyanka5064/ecom-backend/internal/repository"
)

// ProductReader is the slice of the catalog the cart service needs:
// existence checks on add and price lookups for total recomputation.
type ProductReader interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int64) ([]*domain.Product, error)
}

// CartService implements the cart operations over a load-mutate-persist
// cycle. There is no transaction around that cycle: two concurrent
// mutations of the same user's cart race and the last write wins.
type CartService struct {
	repo    repository.CartRepository
	catalog ProductReader
	cache   cache.CartCache
	sfg     singleflight.Group // Prevents cache stampede
	log     zerolog.Logger
}

func NewCartService(repo repository.CartRepository, catalog ProductReader, cartCache cache.CartCache, log zerolog.Logger) *CartService {
	return &CartService{
		repo:    repo,
		catalog: catalog,
		cache:   cartCache,
		log:     log,
	}
}

// AddItem puts quantity units of a product into the user's cart, creating
// the cart on first use. An existing line item for the product has its
// quantity incremented, never duplicated. Quantity 0 means "not given"
// and becomes 1; other values are trusted as supplied.
func (s *CartService) AddItem(ctx context.Context, userID string, productID int64, quantity int) (*domain.Cart, error) {
	if quantity == 0 {
		quantity = 1
	}

	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrCartNotFound) {
			return nil, err
		}
		cart = &domain.Cart{
			UserID: userID,
			Items:  []domain.LineItem{},
		}
	}

	if idx := cart.FindItem(productID); idx >= 0 {
		cart.Items[idx].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, domain.LineItem{
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		})
	}

	if err := s.finishMutation(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// GetCart returns the user's cart with line items expanded to full product
// detail. A user who never added anything has no cart and gets
// repository.ErrCartNotFound.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.CartDetail, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn().Err(err).Msg("cart cache get failed")
		}

		cart, err = s.repo.GetCart(ctx, userID)
		if err != nil {
			return nil, err
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), userID, cart); errSet != nil {
				s.log.Warn().Err(errSet).Msg("cart cache set failed")
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	return s.expand(ctx, v.(*domain.Cart))
}

// UpdateQuantity replaces (not increments) the quantity of an existing
// line item. Quantities of 1 or less are rejected; unlike AddItem there
// is no defaulting here.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, productID int64, quantity int) (*domain.Cart, error) {
	if quantity <= 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(productID)
	if idx < 0 {
		return nil, ErrItemNotFound
	}
	cart.Items[idx].Quantity = quantity

	if err := s.finishMutation(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// RemoveItem drops a line item from the cart entirely.
func (s *CartService) RemoveItem(ctx context.Context, userID string, productID int64) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(productID)
	if idx < 0 {
		return nil, ErrItemNotFound
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	if err := s.finishMutation(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// ClearCart empties the cart in place. The cart document survives, so a
// cleared cart is a present cart with zero items, not a missing one.
func (s *CartService) ClearCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Items = []domain.LineItem{}

	if err := s.finishMutation(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// finishMutation recomputes the derived total, persists the cart and
// drops any cached copy. Every mutating operation funnels through here
// so the stored total is never stale relative to the line items.
func (s *CartService) finishMutation(ctx context.Context, cart *domain.Cart) error {
	total, err := s.recomputeTotal(ctx, cart.Items)
	if err != nil {
		return err
	}
	cart.TotalPrice = total

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		s.log.Error().Err(err).Str("user_id", cart.UserID).Msg("cart upsert failed")
		return err
	}

	s.invalidateCache(cart.UserID)
	return nil
}

// recomputeTotal re-fetches current catalog prices for the cart's line
// items and sums price*quantity. Items whose product no longer resolves
// contribute 0 rather than failing the operation.
func (s *CartService) recomputeTotal(ctx context.Context, items []domain.LineItem) (float64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	prices := make(map[int64]float64, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}

	var total float64
	for _, item := range items {
		total += prices[item.ProductID] * float64(item.Quantity)
	}
	return total, nil
}

func (s *CartService) expand(ctx context.Context, cart *domain.Cart) (*domain.CartDetail, error) {
	detail := &domain.CartDetail{
		ID:         cart.ID,
		UserID:     cart.UserID,
		Items:      make([]domain.LineItemDetail, len(cart.Items)),
		TotalPrice: cart.TotalPrice,
		CreatedAt:  cart.CreatedAt,
		UpdatedAt:  cart.UpdatedAt,
	}

	if len(cart.Items) == 0 {
		return detail, nil
	}

	ids := make([]int64, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for i, item := range cart.Items {
		detail.Items[i] = domain.LineItemDetail{
			Product:  byID[item.ProductID], // nil when the product is gone
			Quantity: item.Quantity,
			AddedAt:  item.AddedAt,
		}
	}

	return detail, nil
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("cart cache invalidate failed")
	}
}
