package event

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/labcore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus dispatches domain events to in-process handlers.
// Handlers run synchronously unless the bus was built with WithAsyncDispatch
// and has been started.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	async    bool
	running  atomic.Bool
	wg       sync.WaitGroup
}

// BusOption configures an InMemoryEventBus
type BusOption func(*InMemoryEventBus)

// WithAsyncDispatch runs every handler on its own goroutine while the bus runs
func WithAsyncDispatch() BusOption {
	return func(b *InMemoryEventBus) {
		b.async = true
	}
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, opts ...BusOption) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish hands events to their handlers. Handler failures are logged and
// never returned: the transaction that raised the events has already committed.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.registry.GetHandlers(event.EventType()) {
			if b.async && b.running.Load() {
				b.wg.Add(1)
				go func(h shared.EventHandler, e shared.DomainEvent) {
					defer b.wg.Done()
					// detached from the request that raised the event
					b.dispatch(context.WithoutCancel(ctx), h, e)
				}(handler, event)
				continue
			}
			b.dispatch(ctx, handler, event)
		}
	}
	return nil
}

// Subscribe registers a handler; without explicit types the handler's own are used
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("handler unsubscribed")
}

// Start starts the event bus
func (b *InMemoryEventBus) Start(_ context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started", zap.Bool("async", b.async))
	return nil
}

// Stop waits for in-flight handlers until ctx expires
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus stop: %w", ctx.Err())
	}
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Any("panic", r),
			)
		}
	}()

	if err := handler.Handle(ctx, event); err != nil {
		b.logger.Error("handler failed to process event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err),
		)
	}
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
