// Package notify is the change-notification channel between the order write
// path and the live views. Events are signals only: they say "entity X of
// kind Y under tenant T changed" and never carry the row itself, so a
// consumer must refetch the authoritative state from the store. That makes
// consumers safe under duplicate and out-of-order delivery.
package notify

import (
	"context"

	"tably/internal/types"
)

type Kind string

const KindOrder Kind = "order"

type Event struct {
	TenantID types.ID `json:"tenant_id"`
	Kind     Kind     `json:"kind"`
	EntityID types.ID `json:"entity_id"`
}

// Scope names a subscription filter: every order under a tenant, or a
// single order.
type Scope struct {
	channel string
}

func TenantScope(tenantID types.ID) Scope {
	return Scope{channel: "tably:tenant:" + string(tenantID) + ":orders"}
}

func OrderScope(orderID types.ID) Scope {
	return Scope{channel: "tably:order:" + string(orderID)}
}

func (s Scope) Channel() string { return s.channel }

type Publisher interface {
	// Publish delivers the event to the tenant scope and to the matching
	// single-entity scope. Best effort: no ordering or at-most-once
	// guarantee is implied.
	Publish(ctx context.Context, e Event) error
}

type Subscriber interface {
	// Subscribe returns a channel of events for the scope and a stop
	// function. The event channel is closed when the context ends or the
	// stop function is called.
	Subscribe(ctx context.Context, s Scope) (<-chan Event, func(), error)
}

type Channel interface {
	Publisher
	Subscriber
}
