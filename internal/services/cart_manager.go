package services

import (
	"context"
	"errors"
	"fmt"
	"golang-cart-backend/internal/events"
	"golang-cart-backend/internal/models"
	"golang-cart-backend/internal/repositories"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidOptions  = errors.New("options not supported by product")
	ErrInvalidProduct  = errors.New("product id is required")
	ErrInvalidState    = errors.New("state is required")
	ErrItemNotFound    = errors.New("item not found in cart")
)

// CartManager is the only code path that mutates carts. Every mutating
// call fires exactly one lifecycle event once the change is applied.
// A cart must not be mutated from several goroutines at once.
type CartManager struct {
	repo       repositories.CartRepository
	dispatcher *events.Dispatcher
}

func NewCartManager(repo repositories.CartRepository, dispatcher *events.Dispatcher) *CartManager {
	if dispatcher == nil {
		dispatcher = events.NewDispatcher()
	}
	return &CartManager{
		repo:       repo,
		dispatcher: dispatcher,
	}
}

// CreateCart returns a new open cart. It is not persisted until UpdateCart.
func (m *CartManager) CreateCart(ctx context.Context, name string) (*models.Cart, error) {
	if name == "" {
		name = models.DefaultCartName
	}

	now := time.Now()
	cart := &models.Cart{
		ID:        uuid.New(),
		Name:      name,
		State:     models.CartStateOpen,
		Items:     models.ItemList{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.dispatcher.Dispatch(ctx, events.NewCartEvent(events.InitCart, cart)); err != nil {
		return cart, err
	}
	return cart, nil
}

// AddProductToCart adds quantity units of product. A zero quantity means one.
// An existing line for the same product and options is incremented instead
// of duplicated.
func (m *CartManager) AddProductToCart(ctx context.Context, cart *models.Cart, product models.Product, options models.Options, quantity int) (*models.Item, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if product.ID == "" {
		return nil, ErrInvalidProduct
	}
	if !product.SupportsOptions(options) {
		return nil, fmt.Errorf("%w: product %s, options %q", ErrInvalidOptions, product.ID, options.Key())
	}

	if item := m.FindProductInCart(cart, product, options); item != nil {
		if err := m.setItemQuantity(ctx, cart, item, item.Quantity+quantity); err != nil {
			return item, err
		}
		return item, nil
	}

	now := time.Now()
	item := &models.Item{
		ID:          uuid.New(),
		CartID:      cart.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Options:     options.Clone(),
		Quantity:    quantity,
		State:       models.ItemStateOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	cart.Items = append(cart.Items, item)
	cart.UpdatedAt = now

	if err := m.dispatcher.Dispatch(ctx, events.NewItemEvent(events.InitItem, cart, item)); err != nil {
		return item, err
	}
	return item, nil
}

// FindProductInCart returns the line for product with exactly these options,
// or nil.
func (m *CartManager) FindProductInCart(cart *models.Cart, product models.Product, options models.Options) *models.Item {
	for _, item := range cart.Items {
		if item.Matches(product.ID, options) {
			return item
		}
	}
	return nil
}

// RemoveProductFromCart drops the whole line, whatever its quantity.
func (m *CartManager) RemoveProductFromCart(ctx context.Context, cart *models.Cart, product models.Product, options models.Options, andPersist bool) error {
	idx := -1
	for i, item := range cart.Items {
		if item.Matches(product.ID, options) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: product %s", ErrItemNotFound, product.ID)
	}

	item := cart.Items[idx]
	last := len(cart.Items) - 1
	copy(cart.Items[idx:], cart.Items[idx+1:])
	cart.Items[last] = nil
	cart.Items = cart.Items[:last]
	cart.UpdatedAt = time.Now()

	if err := m.dispatcher.Dispatch(ctx, events.NewItemEvent(events.RemoveItem, cart, item)); err != nil {
		return err
	}

	if andPersist {
		return m.persist(ctx, cart)
	}
	return nil
}

// SetItemQuantity replaces the quantity; it does not add to it. Removing a
// line goes through RemoveProductFromCart, so zero is rejected here.
func (m *CartManager) SetItemQuantity(ctx context.Context, item *models.Item, quantity int) error {
	return m.setItemQuantity(ctx, nil, item, quantity)
}

func (m *CartManager) SetProductQuantity(ctx context.Context, cart *models.Cart, product models.Product, options models.Options, quantity int) error {
	item := m.FindProductInCart(cart, product, options)
	if item == nil {
		return fmt.Errorf("%w: product %s", ErrItemNotFound, product.ID)
	}
	return m.setItemQuantity(ctx, cart, item, quantity)
}

func (m *CartManager) setItemQuantity(ctx context.Context, cart *models.Cart, item *models.Item, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	now := time.Now()
	item.Quantity = quantity
	item.UpdatedAt = now
	if cart != nil {
		cart.UpdatedAt = now
	}

	return m.dispatcher.Dispatch(ctx, events.NewItemEvent(events.UpdateItem, cart, item))
}

func (m *CartManager) SetCartItemState(ctx context.Context, item *models.Item, state models.ItemState) error {
	if state == "" {
		return ErrInvalidState
	}

	item.State = state
	item.UpdatedAt = time.Now()

	return m.dispatcher.Dispatch(ctx, events.NewItemEvent(events.UpdateItemState, nil, item))
}

func (m *CartManager) SetCartState(ctx context.Context, cart *models.Cart, state models.CartState) error {
	if state == "" {
		return ErrInvalidState
	}

	cart.State = state
	cart.UpdatedAt = time.Now()

	return m.dispatcher.Dispatch(ctx, events.NewCartEvent(events.UpdateCartState, cart))
}

// TODO: add SetCartPricingSet once pricing sets are served by the pricing
// service; Cart.PricingSetID is reserved for it.

// UpdateCart fires UPDATE_CART and, unless andPersist is false, saves the cart.
func (m *CartManager) UpdateCart(ctx context.Context, cart *models.Cart, andPersist bool) error {
	if err := m.dispatcher.Dispatch(ctx, events.NewCartEvent(events.UpdateCart, cart)); err != nil {
		return err
	}

	if andPersist {
		return m.persist(ctx, cart)
	}
	return nil
}

func (m *CartManager) FindBy(ctx context.Context, criteria repositories.Criteria) ([]*models.Cart, error) {
	return m.repo.FindBy(ctx, criteria)
}

func (m *CartManager) FindCartByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	return m.repo.FindByID(ctx, id)
}

func (m *CartManager) EventDispatcher() *events.Dispatcher {
	return m.dispatcher
}

func (m *CartManager) persist(ctx context.Context, cart *models.Cart) error {
	if err := m.repo.Save(ctx, cart); err != nil {
		slog.Error("failed to persist cart", "cart_id", cart.ID, "error", err)
		return fmt.Errorf("persist cart %s: %w", cart.ID, err)
	}
	return nil
}
