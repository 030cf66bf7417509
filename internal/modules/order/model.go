// Order aggregate and status definitions.
package order

import (
	"time"

	"tably/internal/types"
)

type Status string

const (
	// StatusNone only ever appears as the from-status of the creation
	// event; no stored order carries it.
	StatusNone Status = "none"

	StatusReceived  Status = "received"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusSentOut   Status = "sent_out"
	StatusClosed    Status = "closed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus maps a wire string onto a known status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusReceived, StatusPreparing, StatusReady, StatusSentOut, StatusClosed, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

const (
	// SourceQR marks orders created from a scanned table QR code.
	SourceQR = "qr"

	MaxItems     = 50
	MaxQty       = 99
	MaxNoteChars = 200
)

type Order struct {
	ID           types.ID  `json:"id"`
	TenantID     types.ID  `json:"tenant_id"`
	TableID      types.ID  `json:"table_id"`
	Status       Status    `json:"status"`
	Source       string    `json:"source"`
	CustomerNote *string   `json:"customer_note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Item is a frozen snapshot of the menu item at order time. Later menu
// edits never alter it.
type Item struct {
	ID                  types.ID `json:"id"`
	OrderID             types.ID `json:"order_id"`
	MenuItemID          types.ID `json:"menu_item_id"`
	TitleSnapshot       string   `json:"title_snapshot"`
	DescriptionSnapshot *string  `json:"description_snapshot,omitempty"`
	ImageURLSnapshot    *string  `json:"image_url_snapshot,omitempty"`
	Qty                 int      `json:"qty"`
	Notes               *string  `json:"notes,omitempty"`
}

// OrderWithItems is the joined representation views render from.
type OrderWithItems struct {
	Order
	Items     []Item `json:"items"`
	TableName string `json:"table_name"`
}

type StatusEvent struct {
	ID         int64     `json:"id"`
	OrderID    types.ID  `json:"order_id"`
	FromStatus Status    `json:"from_status"`
	ToStatus   Status    `json:"to_status"`
	ActorType  string    `json:"actor_type"`
	ActorID    *types.ID `json:"actor_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// AllowedTransitions represents the order lifecycle as code. Movement is
// strictly forward; closed and cancelled are terminal and preparation is
// not reversible, so there is no undo edge.
var AllowedTransitions = map[Status][]Status{
	StatusReceived:  {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusSentOut},
	StatusSentOut:   {StatusClosed},
}

func CanTransition(from, to Status) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions.
func IsTerminal(s Status) bool {
	return len(AllowedTransitions[s]) == 0
}

// ActiveStatuses lists every non-terminal status, oldest stage first.
var ActiveStatuses = []Status{StatusReceived, StatusPreparing, StatusReady, StatusSentOut}
