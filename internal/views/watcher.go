// Package views implements the consumer side of the notification contract.
// A watcher treats every incoming event as a hint that something changed
// and refetches the authoritative snapshot from the store before
// rendering. Because refetch always yields the latest true state, watchers
// are idempotent under duplicate and out-of-order delivery.
package views

import (
	"context"

	"github.com/rs/zerolog"

	"tably/internal/modules/order"
	"tably/internal/notify"
	"tably/internal/types"
)

// Fetch reads the current snapshot for a view from the store.
type Fetch[T any] func(ctx context.Context) (T, error)

// Render hands the snapshot to whatever displays it (an SSE stream, a
// terminal, a test).
type Render[T any] func(T)

type Watcher[T any] struct {
	sub    notify.Subscriber
	scope  notify.Scope
	fetch  Fetch[T]
	render Render[T]
	log    zerolog.Logger
}

func NewWatcher[T any](sub notify.Subscriber, scope notify.Scope, fetch Fetch[T], render Render[T], log zerolog.Logger) *Watcher[T] {
	return &Watcher[T]{sub: sub, scope: scope, fetch: fetch, render: render, log: log}
}

// Run renders once immediately, then once per received event, until the
// context ends. A failed refetch is logged and skipped; the next event
// triggers another attempt.
func (w *Watcher[T]) Run(ctx context.Context) error {
	events, stop, err := w.sub.Subscribe(ctx, w.scope)
	if err != nil {
		return err
	}
	defer stop()

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-events:
			if !ok {
				return nil
			}
			w.refresh(ctx)
		}
	}
}

func (w *Watcher[T]) refresh(ctx context.Context) {
	snap, err := w.fetch(ctx)
	if err != nil {
		w.log.Warn().Err(err).Str("scope", w.scope.Channel()).Msg("views: refetch failed")
		return
	}
	w.render(snap)
}

// OrderLister is the slice of the order service the tenant-wide views
// need.
type OrderLister interface {
	ListByStatus(ctx context.Context, tenantID types.ID, status order.Status) ([]order.OrderWithItems, error)
	ListActive(ctx context.Context, tenantID types.ID) ([]order.OrderWithItems, error)
}

// OrderGetter is the slice the single-order customer view needs.
type OrderGetter interface {
	Get(ctx context.Context, id types.ID) (*order.OrderWithItems, error)
}

// KitchenView watches every order change in a tenant and re-derives the
// bucket of orders in one lifecycle stage, e.g. preparing.
func KitchenView(sub notify.Subscriber, orders OrderLister, tenantID types.ID, status order.Status, render Render[[]order.OrderWithItems], log zerolog.Logger) *Watcher[[]order.OrderWithItems] {
	fetch := func(ctx context.Context) ([]order.OrderWithItems, error) {
		return orders.ListByStatus(ctx, tenantID, status)
	}
	return NewWatcher(sub, notify.TenantScope(tenantID), fetch, render, log)
}

// ServerView watches the same tenant scope but keeps all open orders, for
// the floor staff's ready-queue display.
func ServerView(sub notify.Subscriber, orders OrderLister, tenantID types.ID, render Render[[]order.OrderWithItems], log zerolog.Logger) *Watcher[[]order.OrderWithItems] {
	fetch := func(ctx context.Context) ([]order.OrderWithItems, error) {
		return orders.ListActive(ctx, tenantID)
	}
	return NewWatcher(sub, notify.TenantScope(tenantID), fetch, render, log)
}

// CustomerView watches a single order for the confirmation page.
func CustomerView(sub notify.Subscriber, orders OrderGetter, orderID types.ID, render Render[*order.OrderWithItems], log zerolog.Logger) *Watcher[*order.OrderWithItems] {
	fetch := func(ctx context.Context) (*order.OrderWithItems, error) {
		return orders.Get(ctx, orderID)
	}
	return NewWatcher(sub, notify.OrderScope(orderID), fetch, render, log)
}
