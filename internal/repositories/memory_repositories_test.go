package repositories

import (
	"context"
	"testing"
	"time"

	"golang-cart-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCart(name string, state models.CartState, created time.Time) *models.Cart {
	return &models.Cart{
		ID:        uuid.New(),
		Name:      name,
		State:     state,
		Items:     models.ItemList{},
		CreatedAt: created,
	}
}

func seedCarts(t *testing.T, repo CartRepository) []*models.Cart {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	carts := []*models.Cart{
		newTestCart("default", models.CartStateOpen, base.Add(2*time.Hour)),
		newTestCart("wishlist", models.CartStateOpen, base),
		newTestCart("default", models.CartStateLocked, base.Add(time.Hour)),
		newTestCart("default", models.CartStateOpen, base.Add(3*time.Hour)),
	}
	for _, c := range carts {
		require.NoError(t, repo.Save(context.Background(), c))
	}
	return carts
}

func ids(carts []*models.Cart) []uuid.UUID {
	out := make([]uuid.UUID, len(carts))
	for i, c := range carts {
		out[i] = c.ID
	}
	return out
}

func TestMemoryCartRepository_SaveAndFindByID(t *testing.T) {
	repo := NewMemoryCartRepository()
	ctx := context.Background()

	cart := newTestCart("default", models.CartStateOpen, time.Time{})
	cart.Items = append(cart.Items, &models.Item{ID: uuid.New(), CartID: cart.ID, ProductID: "sku-1", Quantity: 1, Options: models.Options{"size": "M"}})
	require.NoError(t, repo.Save(ctx, cart))
	assert.False(t, cart.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, found.ID)
	require.Len(t, found.Items, 1)

	// Unsaved changes on the caller's copy stay invisible.
	cart.Items[0].Quantity = 9
	cart.Items[0].Options["size"] = "L"
	cart.Name = "renamed"

	found, err = repo.FindByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, "default", found.Name)
	assert.Equal(t, 1, found.Items[0].Quantity)
	assert.Equal(t, "M", found.Items[0].Options["size"])
}

func TestMemoryCartRepository_FindByID_NotFound(t *testing.T) {
	_, err := NewMemoryCartRepository().FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestMemoryCartRepository_CanceledContext(t *testing.T) {
	repo := NewMemoryCartRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Save(ctx, newTestCart("x", models.CartStateOpen, time.Time{})), context.Canceled)
	_, err := repo.FindBy(ctx, Criteria{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryCartRepository_FindBy(t *testing.T) {
	repo := NewMemoryCartRepository()
	carts := seedCarts(t, repo)
	ctx := context.Background()

	t.Run("no criteria keeps insertion order", func(t *testing.T) {
		found, err := repo.FindBy(ctx, Criteria{})
		require.NoError(t, err)
		assert.Equal(t, ids(carts), ids(found))
	})

	t.Run("filters by name and state", func(t *testing.T) {
		found, err := repo.FindBy(ctx, Criteria{Name: "default", State: models.CartStateOpen})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{carts[0].ID, carts[3].ID}, ids(found))
	})

	t.Run("filters by ids", func(t *testing.T) {
		found, err := repo.FindBy(ctx, Criteria{IDs: []uuid.UUID{carts[2].ID, uuid.New()}})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{carts[2].ID}, ids(found))
	})

	t.Run("orders by created_at", func(t *testing.T) {
		found, err := repo.FindBy(ctx, Criteria{OrderBy: []OrderBy{{Field: SortByCreatedAt}}})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{carts[1].ID, carts[2].ID, carts[0].ID, carts[3].ID}, ids(found))
	})

	t.Run("orders by name then created_at desc", func(t *testing.T) {
		found, err := repo.FindBy(ctx, Criteria{OrderBy: []OrderBy{
			{Field: SortByName},
			{Field: SortByCreatedAt, Desc: true},
		}})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{carts[3].ID, carts[0].ID, carts[2].ID, carts[1].ID}, ids(found))
	})

	t.Run("limit and offset", func(t *testing.T) {
		found, err := repo.FindBy(ctx, Criteria{
			OrderBy: []OrderBy{{Field: SortByCreatedAt}},
			Limit:   2,
			Offset:  1,
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{carts[2].ID, carts[0].ID}, ids(found))
	})

	t.Run("offset past the end", func(t *testing.T) {
		found, err := repo.FindBy(ctx, Criteria{Offset: 10})
		require.NoError(t, err)
		assert.NotNil(t, found)
		assert.Empty(t, found)
	})

	t.Run("no match is an empty result", func(t *testing.T) {
		found, err := repo.FindBy(ctx, Criteria{Name: "nope"})
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("invalid criteria", func(t *testing.T) {
		_, err := repo.FindBy(ctx, Criteria{Limit: -1})
		assert.ErrorIs(t, err, ErrInvalidCriteria)
	})
}

func TestMemoryCartRepository_SaveTwiceKeepsPosition(t *testing.T) {
	repo := NewMemoryCartRepository()
	carts := seedCarts(t, repo)
	ctx := context.Background()

	carts[0].Name = "updated"
	require.NoError(t, repo.Save(ctx, carts[0]))

	found, err := repo.FindBy(ctx, Criteria{})
	require.NoError(t, err)
	assert.Equal(t, ids(carts), ids(found))
	assert.Equal(t, "updated", found[0].Name)
}

func TestOpaqueProductCatalog(t *testing.T) {
	catalog := NewOpaqueProductCatalog()

	product, err := catalog.GetByID(context.Background(), "sku-1")
	require.NoError(t, err)
	assert.Equal(t, "sku-1", product.ID)
	assert.True(t, product.SupportsOptions(models.Options{"size": "M"}))

	_, err = catalog.GetByID(context.Background(), " ")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
