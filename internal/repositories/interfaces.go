package repositories

import (
	"context"
	"errors"
	"golang-cart-backend/internal/models"

	"github.com/google/uuid"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidCriteria = errors.New("invalid criteria")
)

// CartRepository is the persistence side of the cart manager. Save is an
// upsert of the whole aggregate, items included.
type CartRepository interface {
	Save(ctx context.Context, cart *models.Cart) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	FindBy(ctx context.Context, criteria Criteria) ([]*models.Cart, error)
}

// ProductCatalog resolves product references for the HTTP layer
type ProductCatalog interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
}
