package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the catalog entry a cart item points at. Carts only care
// about its identity and which options it accepts.
type Product struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	OptionSets map[string][]string `json:"option_sets,omitempty"`
}

// SupportsOptions reports whether every selected option is declared by the
// product with an allowed value. A product without option sets accepts
// anything.
func (p Product) SupportsOptions(options Options) bool {
	if len(p.OptionSets) == 0 {
		return true
	}
	for name, value := range options {
		allowed, ok := p.OptionSets[name]
		if !ok {
			return false
		}
		found := false
		for _, a := range allowed {
			if a == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// CatalogProduct is the MongoDB document behind a Product.
type CatalogProduct struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty"`
	Name       string              `bson:"name"`
	OptionSets map[string][]string `bson:"option_sets,omitempty"`
	IsActive   bool                `bson:"is_active"`
	CreatedAt  time.Time           `bson:"created_at"`
	UpdatedAt  time.Time           `bson:"updated_at"`
}

func (p CatalogProduct) Product() Product {
	return Product{
		ID:         p.ID.Hex(),
		Name:       p.Name,
		OptionSets: p.OptionSets,
	}
}
