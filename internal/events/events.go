package events

import (
	"time"

	"golang-cart-backend/internal/models"
)

// Lifecycle event names fired by the cart manager.
const (
	InitCart        = "INIT_CART"
	InitItem        = "INIT_ITEM"
	UpdateItem      = "UPDATE_ITEM"
	UpdateItemState = "UPDATE_ITEM_STATE"
	RemoveItem      = "REMOVE_ITEM"
	UpdateCart      = "UPDATE_CART"
	UpdateCartState = "UPDATE_CART_STATE"
)

// Names lists every lifecycle event in the order a cart usually sees them.
var Names = []string{
	InitCart,
	InitItem,
	UpdateItem,
	UpdateItemState,
	RemoveItem,
	UpdateCart,
	UpdateCartState,
}

// Event is what listeners receive. Item is nil for cart-level events.
type Event struct {
	Name       string
	Cart       *models.Cart
	Item       *models.Item
	OccurredAt time.Time

	stopped bool
}

func NewCartEvent(name string, cart *models.Cart) *Event {
	return &Event{Name: name, Cart: cart, OccurredAt: time.Now()}
}

func NewItemEvent(name string, cart *models.Cart, item *models.Item) *Event {
	return &Event{Name: name, Cart: cart, Item: item, OccurredAt: time.Now()}
}

// StopPropagation keeps listeners registered after the current one from
// seeing the event.
func (e *Event) StopPropagation() {
	e.stopped = true
}

func (e *Event) IsPropagationStopped() bool {
	return e.stopped
}
