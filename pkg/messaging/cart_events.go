package messaging

import (
	"context"
	"log/slog"
	"time"

	"golang-cart-backend/internal/events"
	"golang-cart-backend/internal/models"
)

// CartEventMessage is the JSON payload published for every lifecycle event.
type CartEventMessage struct {
	Type       string       `json:"type"`
	CartID     string       `json:"cart_id"`
	ItemID     string       `json:"item_id,omitempty"`
	Cart       *models.Cart `json:"cart,omitempty"`
	Item       *models.Item `json:"item,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

type Sender interface {
	SendMessage(ctx context.Context, topic, key string, value interface{}) error
}

// EventPublisher forwards cart lifecycle events to a Kafka topic. Send
// failures are logged, never returned to the dispatcher.
type EventPublisher struct {
	sender Sender
	topic  string
}

func NewEventPublisher(sender Sender, topic string) *EventPublisher {
	return &EventPublisher{sender: sender, topic: topic}
}

// Register subscribes the publisher to every event on d.
func (p *EventPublisher) Register(d *events.Dispatcher) func() {
	return d.SubscribeAll(p.Handle)
}

func (p *EventPublisher) Handle(ctx context.Context, event *events.Event) error {
	msg := CartEventMessage{
		Type:       event.Name,
		Cart:       event.Cart,
		Item:       event.Item,
		OccurredAt: event.OccurredAt,
	}
	switch {
	case event.Cart != nil:
		msg.CartID = event.Cart.ID.String()
	case event.Item != nil:
		msg.CartID = event.Item.CartID.String()
	}
	if event.Item != nil {
		msg.ItemID = event.Item.ID.String()
	}

	// Publishing is best effort: a broker outage must not block cart writes.
	if err := p.sender.SendMessage(ctx, p.topic, msg.CartID, msg); err != nil {
		slog.ErrorContext(ctx, "failed to publish cart event",
			"event", event.Name, "cart_id", msg.CartID, "topic", p.topic, "error", err)
	}
	return nil
}
