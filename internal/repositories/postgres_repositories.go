package repositories

import (
	"context"
	"errors"
	"fmt"
	"golang-cart-backend/internal/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cart Repository
type postgresCartRepository struct {
	db *gorm.DB
}

func NewPostgresCartRepository(db *gorm.DB) CartRepository {
	return &postgresCartRepository{db: db}
}

func (r *postgresCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	if err := r.db.WithContext(ctx).Save(cart).Error; err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (r *postgresCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}

func (r *postgresCartRepository) FindBy(ctx context.Context, criteria Criteria) ([]*models.Cart, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Cart{})
	if len(criteria.IDs) > 0 {
		query = query.Where("id IN ?", criteria.IDs)
	}
	if criteria.Name != "" {
		query = query.Where("name = ?", criteria.Name)
	}
	if criteria.State != "" {
		query = query.Where("state = ?", criteria.State)
	}
	for _, o := range criteria.OrderBy {
		query = query.Order(clause.OrderByColumn{
			Column: clause.Column{Name: string(o.Field)},
			Desc:   o.Desc,
		})
	}
	if criteria.Limit > 0 {
		query = query.Limit(criteria.Limit)
	}
	if criteria.Offset > 0 {
		query = query.Offset(criteria.Offset)
	}

	var carts []*models.Cart
	if err := query.Find(&carts).Error; err != nil {
		return nil, fmt.Errorf("failed to find carts: %w", err)
	}
	return carts, nil
}
