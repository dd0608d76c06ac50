package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"golang-cart-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recorder(calls *[]string, tag string) Listener {
	return func(_ context.Context, e *Event) error {
		*calls = append(*calls, tag+":"+e.Name)
		return nil
	}
}

func TestDispatch_NamedBeforeWildcardInOrder(t *testing.T) {
	d := NewDispatcher()
	var calls []string

	d.SubscribeAll(recorder(&calls, "all"))
	d.Subscribe(InitCart, recorder(&calls, "first"))
	d.Subscribe(InitCart, recorder(&calls, "second"))
	d.Subscribe(RemoveItem, recorder(&calls, "other"))

	err := d.Dispatch(context.Background(), NewCartEvent(InitCart, &models.Cart{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"first:INIT_CART", "second:INIT_CART", "all:INIT_CART"}, calls)
}

func TestDispatch_StopPropagation(t *testing.T) {
	d := NewDispatcher()
	var calls []string

	d.Subscribe(UpdateCart, func(_ context.Context, e *Event) error {
		calls = append(calls, "stopper")
		e.StopPropagation()
		return nil
	})
	d.Subscribe(UpdateCart, recorder(&calls, "late"))
	d.SubscribeAll(recorder(&calls, "all"))

	event := NewCartEvent(UpdateCart, &models.Cart{})
	require.NoError(t, d.Dispatch(context.Background(), event))
	assert.Equal(t, []string{"stopper"}, calls)
	assert.True(t, event.IsPropagationStopped())
}

func TestDispatch_Unsubscribe(t *testing.T) {
	d := NewDispatcher()
	var calls []string

	unsubscribe := d.Subscribe(InitItem, recorder(&calls, "named"))
	unsubscribeAll := d.SubscribeAll(recorder(&calls, "all"))
	assert.True(t, d.HasListeners(InitItem))

	unsubscribe()
	unsubscribeAll()
	assert.False(t, d.HasListeners(InitItem))

	require.NoError(t, d.Dispatch(context.Background(), NewItemEvent(InitItem, nil, &models.Item{})))
	assert.Empty(t, calls)
}

func TestDispatch_CollectsListenerErrors(t *testing.T) {
	d := NewDispatcher()
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	var calls []string

	d.Subscribe(UpdateItem, func(context.Context, *Event) error { return errA })
	d.Subscribe(UpdateItem, recorder(&calls, "ok"))
	d.SubscribeAll(func(context.Context, *Event) error { return errB })

	err := d.Dispatch(context.Background(), NewItemEvent(UpdateItem, nil, &models.Item{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Contains(t, err.Error(), UpdateItem)
	assert.Equal(t, []string{"ok:UPDATE_ITEM"}, calls)
}

func TestDispatch_NilEvent(t *testing.T) {
	assert.Error(t, NewDispatcher().Dispatch(context.Background(), nil))
}

func TestLogListener(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cart := &models.Cart{ID: uuid.New(), State: models.CartStateOpen}
	item := &models.Item{ID: uuid.New(), ProductID: "sku-1", Quantity: 2}

	err := LogListener(logger)(context.Background(), NewItemEvent(InitItem, cart, item))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"event":"INIT_ITEM"`)
	assert.Contains(t, out, cart.ID.String())
	assert.Contains(t, out, `"product_id":"sku-1"`)
}
