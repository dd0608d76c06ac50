package handlers

import (
	"context"
	"golang-cart-backend/internal/events"
	"golang-cart-backend/internal/models"
	"golang-cart-backend/internal/repositories"

	"github.com/google/uuid"
)

// CartManagerInterface defines the contract for cart management
type CartManagerInterface interface {
	CreateCart(ctx context.Context, name string) (*models.Cart, error)
	AddProductToCart(ctx context.Context, cart *models.Cart, product models.Product, options models.Options, quantity int) (*models.Item, error)
	FindProductInCart(cart *models.Cart, product models.Product, options models.Options) *models.Item
	RemoveProductFromCart(ctx context.Context, cart *models.Cart, product models.Product, options models.Options, andPersist bool) error
	SetItemQuantity(ctx context.Context, item *models.Item, quantity int) error
	SetProductQuantity(ctx context.Context, cart *models.Cart, product models.Product, options models.Options, quantity int) error
	SetCartItemState(ctx context.Context, item *models.Item, state models.ItemState) error
	SetCartState(ctx context.Context, cart *models.Cart, state models.CartState) error
	UpdateCart(ctx context.Context, cart *models.Cart, andPersist bool) error
	FindBy(ctx context.Context, criteria repositories.Criteria) ([]*models.Cart, error)
	FindCartByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	EventDispatcher() *events.Dispatcher
}
