// Package event is an in-process publish/subscribe bus for domain events
// such as "order.placed". Async listeners run on a worker pool.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/unistore/pkg/logger"
	"github.com/shashiranjanraj/unistore/pkg/metrics"
	"github.com/shashiranjanraj/unistore/pkg/workerpool"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload any) error

// Bus dispatches events to registered listeners.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	pool     *workerpool.Pool
}

// New returns a bus delivering async events on pool. A nil pool runs async
// listeners on their own goroutines.
func New(pool *workerpool.Pool) *Bus {
	return &Bus{handlers: map[string][]Handler{}, pool: pool}
}

// Listen registers h for name.
func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

func (b *Bus) listeners(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Handler(nil), b.handlers[name]...)
}

// Fire calls every listener in registration order and joins their errors.
func (b *Bus) Fire(ctx context.Context, name string, payload any) error {
	var errs []error
	for _, h := range b.listeners(name) {
		if err := deliver(ctx, name, h, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FireAsync queues every listener and returns immediately. Listener
// failures are logged. The request's cancellation does not reach listeners.
func (b *Bus) FireAsync(ctx context.Context, name string, payload any) {
	ctx = context.WithoutCancel(ctx)
	log := logger.WithCtx(ctx)

	for _, h := range b.listeners(name) {
		h := h
		task := func() {
			if err := deliver(ctx, name, h, payload); err != nil {
				log.Warn("event listener failed", "event", name, "error", err)
			}
		}
		if b.pool == nil {
			go task()
			continue
		}
		if err := b.pool.Submit(task); err != nil {
			log.Warn("event dropped", "event", name, "error", err)
			metrics.EventsDispatched.WithLabelValues(name, "dropped").Inc()
		}
	}
}

func deliver(ctx context.Context, name string, h Handler, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event %s: listener panicked: %v", name, r)
		}
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.EventsDispatched.WithLabelValues(name, result).Inc()
	}()
	return h(ctx, payload)
}
