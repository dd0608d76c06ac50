package repositories

import (
	"context"
	"golang-cart-backend/internal/models"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryCartRepository keeps detached copies of carts, so unsaved changes
// on a caller's cart are not visible through FindByID, same as the
// database-backed stores.
type memoryCartRepository struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]*models.Cart
	order []uuid.UUID
}

func NewMemoryCartRepository() CartRepository {
	return &memoryCartRepository{
		carts: make(map[uuid.UUID]*models.Cart),
	}
}

func (r *memoryCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.carts[cart.ID]; !exists {
		r.order = append(r.order, cart.ID)
	}
	r.carts[cart.ID] = cloneCart(cart)
	return nil
}

func (r *memoryCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[id]
	if !ok {
		return nil, ErrCartNotFound
	}
	return cloneCart(cart), nil
}

func (r *memoryCartRepository) FindBy(ctx context.Context, criteria Criteria) ([]*models.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	var carts []*models.Cart
	for _, id := range r.order {
		cart := r.carts[id]
		if criteria.matches(cart) {
			carts = append(carts, cloneCart(cart))
		}
	}
	r.mu.RUnlock()

	if len(criteria.OrderBy) > 0 {
		sort.SliceStable(carts, func(i, j int) bool {
			return less(carts[i], carts[j], criteria.OrderBy)
		})
	}

	if criteria.Offset >= len(carts) {
		return []*models.Cart{}, nil
	}
	carts = carts[criteria.Offset:]
	if criteria.Limit > 0 && criteria.Limit < len(carts) {
		carts = carts[:criteria.Limit]
	}
	return carts, nil
}

func less(a, b *models.Cart, orderBy []OrderBy) bool {
	for _, o := range orderBy {
		var cmp int
		switch o.Field {
		case SortByName:
			cmp = strings.Compare(a.Name, b.Name)
		case SortByState:
			cmp = strings.Compare(string(a.State), string(b.State))
		case SortByCreatedAt:
			cmp = a.CreatedAt.Compare(b.CreatedAt)
		case SortByUpdatedAt:
			cmp = a.UpdatedAt.Compare(b.UpdatedAt)
		}
		if cmp == 0 {
			continue
		}
		if o.Desc {
			return cmp > 0
		}
		return cmp < 0
	}
	return false
}

func cloneCart(c *models.Cart) *models.Cart {
	out := *c
	if c.PricingSetID != nil {
		id := *c.PricingSetID
		out.PricingSetID = &id
	}
	if c.Items != nil {
		out.Items = make(models.ItemList, len(c.Items))
		for i, item := range c.Items {
			it := *item
			it.Options = item.Options.Clone()
			out.Items[i] = &it
		}
	}
	return &out
}

// opaqueProductCatalog trusts any product id. It is used when no catalog
// database is configured.
type opaqueProductCatalog struct{}

func NewOpaqueProductCatalog() ProductCatalog {
	return opaqueProductCatalog{}
}

func (opaqueProductCatalog) GetByID(_ context.Context, id string) (*models.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrProductNotFound
	}
	return &models.Product{ID: id}, nil
}
