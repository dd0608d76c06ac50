package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const DefaultCartName = "default"

type CartState string

const (
	CartStateOpen      CartState = "open"
	CartStateLocked    CartState = "locked"
	CartStateCompleted CartState = "completed"
)

type ItemState string

const (
	ItemStateOpen        ItemState = "open"
	ItemStateReserved    ItemState = "reserved"
	ItemStateUnavailable ItemState = "unavailable"
)

// Cart is the aggregate root. It exclusively owns its Items. OwnerID is the
// user_id of the token that created it; empty for carts built outside HTTP.
type Cart struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID      string     `gorm:"index" json:"owner_id,omitempty"`
	Name         string     `gorm:"not null;default:default;index" json:"name"`
	State        CartState  `gorm:"not null;default:open;index" json:"state"`
	Items        ItemList   `gorm:"type:jsonb" json:"items"`
	PricingSetID *uuid.UUID `gorm:"type:uuid" json:"pricing_set_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Item is one product line in a cart. ProductID is a reference into the
// external catalog, the cart never owns the product.
type Item struct {
	ID          uuid.UUID `json:"id"`
	CartID      uuid.UUID `json:"cart_id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Options     Options   `json:"options,omitempty"`
	Quantity    int       `json:"quantity"`
	State       ItemState `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Matches reports whether the item is the line for productID with options.
func (i *Item) Matches(productID string, options Options) bool {
	return i.ProductID == productID && i.Options.Equal(options)
}

// ItemByID returns the cart item with the given id, or nil.
func (c *Cart) ItemByID(id uuid.UUID) *Item {
	for _, item := range c.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// TotalQuantity sums the quantities of every line.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// ItemList is stored as a single JSONB column next to the cart row.
type ItemList []*Item

func (l ItemList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *ItemList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, l)
}
