package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/priyanka5064/ecom-backend/internal/domain"
)

func setupTestDB(t *testing.T) (CartRepository, func()) {
	ctx := context.Background()

	// Start MongoDB container
	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	repo := NewMongoRepository(db)

	mongoRepo := repo.(*mongoRepository)
	err = mongoRepo.CreateIndexes(ctx)
	require.NoError(t, err)

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func TestGetCart_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart, err := repo.GetCart(ctx, "nonexistent")

	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, cart)
}

func TestUpsertCart_CreatesAndReads(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart := &domain.Cart{
		UserID: "user123",
		Items: []domain.LineItem{
			{ProductID: 1, Quantity: 3},
		},
		TotalPrice: 29.97,
	}

	require.NoError(t, repo.UpsertCart(ctx, cart))
	assert.False(t, cart.CreatedAt.IsZero())
	assert.False(t, cart.UpdatedAt.IsZero())

	got, err := repo.GetCart(ctx, "user123")
	require.NoError(t, err)
	assert.Equal(t, "user123", got.UserID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(1), got.Items[0].ProductID)
	assert.Equal(t, 3, got.Items[0].Quantity)
	assert.Equal(t, 29.97, got.TotalPrice)
}

func TestUpsertCart_ReplacesExisting(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart := &domain.Cart{
		UserID:     "user123",
		Items:      []domain.LineItem{{ProductID: 1, Quantity: 3}},
		TotalPrice: 30,
	}
	require.NoError(t, repo.UpsertCart(ctx, cart))

	cart.Items = []domain.LineItem{}
	cart.TotalPrice = 0
	require.NoError(t, repo.UpsertCart(ctx, cart))

	got, err := repo.GetCart(ctx, "user123")
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Equal(t, 0.0, got.TotalPrice)
}

func TestUpsertCart_OneDocumentPerUser(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		cart := &domain.Cart{
			UserID: "user123",
			Items:  []domain.LineItem{{ProductID: int64(i + 1), Quantity: 1}},
		}
		require.NoError(t, repo.UpsertCart(ctx, cart))
	}

	got, err := repo.GetCart(ctx, "user123")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(3), got.Items[0].ProductID)
}
