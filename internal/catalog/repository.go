package catalog

import (
	"context"
	"errors"

	"github.com/priyanka5064/ecom-backend/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

type Repository interface {
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int64) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) (int64, error)
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	Close() error
	RunMigrations(migrationsPath string) error
}
