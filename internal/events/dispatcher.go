package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Listener reacts to a lifecycle event. A returned error does not stop
// delivery to the remaining listeners; it is reported back to the caller.
type Listener func(ctx context.Context, event *Event) error

type subscription struct {
	id       uint64
	listener Listener
}

// Dispatcher delivers events synchronously, in subscription order. Listeners
// subscribed to a specific name run before wildcard listeners.
type Dispatcher struct {
	mu       sync.RWMutex
	nextID   uint64
	byName   map[string][]subscription
	wildcard []subscription
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		byName: make(map[string][]subscription),
	}
}

// Subscribe registers listener for one event name and returns a function
// that removes it.
func (d *Dispatcher) Subscribe(name string, listener Listener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.byName[name] = append(d.byName[name], subscription{id: id, listener: listener})

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.byName[name] = remove(d.byName[name], id)
	}
}

// SubscribeAll registers listener for every event.
func (d *Dispatcher) SubscribeAll(listener Listener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.wildcard = append(d.wildcard, subscription{id: id, listener: listener})

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.wildcard = remove(d.wildcard, id)
	}
}

// HasListeners reports whether anything would receive an event called name.
func (d *Dispatcher) HasListeners(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byName[name]) > 0 || len(d.wildcard) > 0
}

func (d *Dispatcher) Dispatch(ctx context.Context, event *Event) error {
	if event == nil {
		return errors.New("nil event")
	}

	d.mu.RLock()
	listeners := make([]subscription, 0, len(d.byName[event.Name])+len(d.wildcard))
	listeners = append(listeners, d.byName[event.Name]...)
	listeners = append(listeners, d.wildcard...)
	d.mu.RUnlock()

	var errs []error
	for _, sub := range listeners {
		if event.IsPropagationStopped() {
			break
		}
		if err := sub.listener(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("dispatch %s: %w", event.Name, errors.Join(errs...))
	}
	return nil
}

func remove(subs []subscription, id uint64) []subscription {
	out := subs[:0:0]
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}

// LogListener writes one debug line per event.
func LogListener(logger *slog.Logger) Listener {
	return func(ctx context.Context, event *Event) error {
		attrs := []any{"event", event.Name}
		if event.Cart != nil {
			attrs = append(attrs, "cart_id", event.Cart.ID, "cart_state", event.Cart.State)
		}
		if event.Item != nil {
			attrs = append(attrs, "item_id", event.Item.ID, "product_id", event.Item.ProductID, "quantity", event.Item.Quantity)
		}
		logger.DebugContext(ctx, "cart lifecycle event", attrs...)
		return nil
	}
}
