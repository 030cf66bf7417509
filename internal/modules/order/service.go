// Order service: the intake path and the sole sanctioned write path for
// status changes.
package order

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tably/internal/notify"
	"tably/internal/types"
)

// TenantResolver resolves a public tenant slug to a tenant id. The second
// return is false when the slug is unknown or the tenant is suspended.
type TenantResolver interface {
	TenantIDBySlug(ctx context.Context, slug string) (types.ID, bool, error)
}

// TableResolver reports whether a table exists under the given tenant.
// Intake is reachable by anyone who scans (or forges) a QR code, so the
// table/tenant pairing is never taken on trust.
type TableResolver interface {
	TableInTenant(ctx context.Context, tableID, tenantID types.ID) (bool, error)
}

type Service struct {
	store   Storage
	tenants TenantResolver
	tables  TableResolver
	channel notify.Publisher
	log     zerolog.Logger
}

func NewService(store Storage, tenants TenantResolver, tables TableResolver, channel notify.Publisher, log zerolog.Logger) *Service {
	return &Service{store: store, tenants: tenants, tables: tables, channel: channel, log: log}
}

type CreateItem struct {
	MenuItemID  types.ID
	Title       string
	Description *string
	ImageURL    *string
	Qty         int
	Notes       *string
}

type CreateCommand struct {
	TenantSlug   string
	TableID      types.ID
	Items        []CreateItem
	CustomerNote *string
}

// Actor identifies who asked for a mutation. Identity is passed in
// explicitly on every call; the service never reads ambient session state.
type Actor struct {
	Type string // "customer", "staff", "superadmin", "system"
	ID   *types.ID
}

// Create validates and persists a new order plus its item snapshots as one
// atomic unit. The order starts in StatusReceived.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Order, error) {
	if err := validateItems(cmd.Items); err != nil {
		return nil, err
	}

	tenantID, ok, err := s.tenants.TenantIDBySlug(ctx, cmd.TenantSlug)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTenant
	}

	inTenant, err := s.tables.TableInTenant(ctx, cmd.TableID, tenantID)
	if err != nil {
		return nil, err
	}
	if !inTenant {
		return nil, ErrInvalidTable
	}

	now := time.Now().UTC()
	o := &Order{
		ID:           types.NewID(),
		TenantID:     tenantID,
		TableID:      cmd.TableID,
		Status:       StatusReceived,
		Source:       SourceQR,
		CustomerNote: cmd.CustomerNote,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	items := make([]Item, len(cmd.Items))
	for i, in := range cmd.Items {
		items[i] = Item{
			ID:                  types.NewID(),
			OrderID:             o.ID,
			MenuItemID:          in.MenuItemID,
			TitleSnapshot:       in.Title,
			DescriptionSnapshot: in.Description,
			ImageURLSnapshot:    in.ImageURL,
			Qty:                 in.Qty,
			Notes:               in.Notes,
		}
	}

	if err := s.store.CreateWithItems(ctx, o, items); err != nil {
		return nil, err
	}
	if err := s.store.AppendStatusEvent(ctx, &StatusEvent{
		OrderID:    o.ID,
		FromStatus: StatusNone,
		ToStatus:   StatusReceived,
		ActorType:  "customer",
		CreatedAt:  now,
	}); err != nil {
		s.log.Warn().Err(err).Str("order_id", string(o.ID)).Msg("order: append create event failed")
	}
	s.publish(ctx, o)
	s.log.Info().
		Str("order_id", string(o.ID)).
		Str("tenant_id", string(tenantID)).
		Int("items", len(items)).
		Msg("order created")
	return o, nil
}

// Transition moves an order to target if the edge exists from the status
// persisted right now. The write is conditional on that freshly read
// status, so two operators acting on the same stale snapshot resolve into
// one winner and one ErrConflict instead of a silent double apply.
func (s *Service) Transition(ctx context.Context, orderID types.ID, target Status, actor Actor) (*Order, error) {
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, target) {
		return nil, &TransitionError{From: o.Status, To: target}
	}

	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}

	if err := s.store.AppendStatusEvent(ctx, &StatusEvent{
		OrderID:    o.ID,
		FromStatus: o.Status,
		ToStatus:   target,
		ActorType:  actor.Type,
		ActorID:    actor.ID,
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		s.log.Warn().Err(err).Str("order_id", string(o.ID)).Msg("order: append status event failed")
	}

	fresh, err := s.store.Get(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, fresh)
	s.log.Info().
		Str("order_id", string(o.ID)).
		Str("from", string(o.Status)).
		Str("to", string(target)).
		Str("actor", actor.Type).
		Msg("order transitioned")
	return fresh, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*OrderWithItems, error) {
	return s.store.GetWithItems(ctx, id)
}

// ListByStatus backs the kitchen and server views: all orders for the
// tenant in one lifecycle stage, oldest first.
func (s *Service) ListByStatus(ctx context.Context, tenantID types.ID, status Status) ([]OrderWithItems, error) {
	return s.store.ListByTenantStatus(ctx, tenantID, status)
}

// ListActive returns every open order for the tenant.
func (s *Service) ListActive(ctx context.Context, tenantID types.ID) ([]OrderWithItems, error) {
	return s.store.ListActiveByTenant(ctx, tenantID)
}

// publish is best effort. Views converge from the store on their next
// event; a lost signal must not fail a committed write.
func (s *Service) publish(ctx context.Context, o *Order) {
	err := s.channel.Publish(ctx, notify.Event{
		TenantID: o.TenantID,
		Kind:     notify.KindOrder,
		EntityID: o.ID,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", string(o.ID)).Msg("order: publish change event failed")
	}
}

func validateItems(items []CreateItem) error {
	if len(items) == 0 {
		return ErrInvalidItem
	}
	if len(items) > MaxItems {
		return ErrTooManyItems
	}
	for i := range items {
		it := &items[i]
		if it.MenuItemID == "" || strings.TrimSpace(it.Title) == "" {
			return ErrInvalidItem
		}
		if it.Qty < 1 || it.Qty > MaxQty {
			return ErrInvalidItem
		}
		if it.Notes != nil && len([]rune(*it.Notes)) > MaxNoteChars {
			return ErrInvalidItem
		}
	}
	return nil
}
