// Package events dispatches domain events raised by aggregates to the
// subscribers registered for them.
package events

import (
	"context"
	"sync"

	"forum/core"
	"forum/logger"
	"forum/metrics"
)

// Handler reacts to a single domain event.
type Handler func(ctx context.Context, event core.DomainEvent) error

// Dispatcher routes domain events by name. Handlers run synchronously on
// the goroutine that persisted the aggregate, in registration order.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]Handler)}
}

func (d *Dispatcher) Register(eventName string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventName] = append(d.handlers[eventName], h)
}

func (d *Dispatcher) ClearHandlers() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = make(map[string][]Handler)
}

// Dispatch drains the pending events of agg and hands each to its handlers.
// A failing handler is logged and does not stop the others. A nil
// Dispatcher only drains.
func (d *Dispatcher) Dispatch(ctx context.Context, agg core.Aggregate) {
	pending := agg.DomainEvents()
	agg.ClearEvents()
	if d == nil {
		return
	}
	for _, e := range pending {
		d.publish(ctx, e)
	}
}

func (d *Dispatcher) publish(ctx context.Context, e core.DomainEvent) {
	d.mu.RLock()
	hs := append([]Handler(nil), d.handlers[e.EventName()]...)
	d.mu.RUnlock()

	logger.Debug("dispatching domain event",
		logger.FieldKV("event", e.EventName()),
		logger.FieldKV("aggregate_id", e.AggregateID().String()),
		logger.FieldKV("handlers", len(hs)))
	metrics.IncEventsDispatched()
	for _, h := range hs {
		if err := h(ctx, e); err != nil {
			metrics.IncEventHandlerFailures()
			logger.Error("domain event handler failed", err,
				logger.FieldKV("event", e.EventName()),
				logger.FieldKV("aggregate_id", e.AggregateID().String()))
		}
	}
}
