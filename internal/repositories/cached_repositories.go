package repositories

import (
	"context"
	"errors"
	"golang-cart-backend/internal/models"
	"golang-cart-backend/pkg/cache"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// CartCache is the subset of pkg/cache the decorator needs.
type CartCache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
}

// cachedCartRepository is a cache-aside decorator. Writes go to the store
// first and then refresh the cache; FindBy always hits the store.
type cachedCartRepository struct {
	next  CartRepository
	cache CartCache
	ttl   time.Duration
}

func NewCachedCartRepository(next CartRepository, cache CartCache, ttl time.Duration) CartRepository {
	return &cachedCartRepository{
		next:  next,
		cache: cache,
		ttl:   ttl,
	}
}

func (r *cachedCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	if err := r.next.Save(ctx, cart); err != nil {
		return err
	}

	if err := r.cache.Set(ctx, cartCacheKey(cart.ID), cart, r.ttl); err != nil {
		slog.Warn("cart cache set failed, invalidating", "cart_id", cart.ID, "error", err)
		r.invalidate(cart.ID)
	}
	return nil
}

func (r *cachedCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.cache.Get(ctx, cartCacheKey(id), &cart)
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		slog.Warn("cart cache get failed", "cart_id", id, "error", err)
	}

	found, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cartCacheKey(id), found, r.ttl); err != nil {
		slog.Warn("cart cache set failed", "cart_id", id, "error", err)
	}
	return found, nil
}

func (r *cachedCartRepository) FindBy(ctx context.Context, criteria Criteria) ([]*models.Cart, error) {
	return r.next.FindBy(ctx, criteria)
}

func (r *cachedCartRepository) invalidate(id uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.cache.Delete(ctx, cartCacheKey(id)); err != nil {
		slog.Warn("cart cache invalidate failed", "cart_id", id, "error", err)
	}
}

func cartCacheKey(id uuid.UUID) string {
	return "cart:" + id.String()
}
