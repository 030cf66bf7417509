// Order store backed by PostgreSQL.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tably/internal/types"
)

// Storage is the persistence contract the service writes through. The
// pgx-backed Store is the production implementation; tests use an
// in-memory one with the same conditional-update semantics.
type Storage interface {
	// CreateWithItems persists the order and all its item snapshots as
	// one atomic unit: either everything is visible afterwards or
	// nothing is.
	CreateWithItems(ctx context.Context, o *Order, items []Item) error
	Get(ctx context.Context, id types.ID) (*Order, error)
	GetWithItems(ctx context.Context, id types.ID) (*OrderWithItems, error)
	ListByTenantStatus(ctx context.Context, tenantID types.ID, status Status) ([]OrderWithItems, error)
	ListActiveByTenant(ctx context.Context, tenantID types.ID) ([]OrderWithItems, error)
	// UpdateStatus performs a conditional write: it succeeds only if the
	// stored status still equals from. Returns false when another
	// transition won the race.
	UpdateStatus(ctx context.Context, id types.ID, from, to Status) (bool, error)
	AppendStatusEvent(ctx context.Context, e *StatusEvent) error
}

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) CreateWithItems(ctx context.Context, o *Order, items []Item) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, tenant_id, table_id, status, source, customer_note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		string(o.ID), string(o.TenantID), string(o.TableID),
		string(o.Status), o.Source, o.CustomerNote, o.CreatedAt,
	)
	if err != nil {
		return err
	}

	for i := range items {
		it := &items[i]
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, tenant_id, menu_item_id, title_snapshot, description_snapshot, image_url_snapshot, qty, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			string(it.ID), string(o.ID), string(o.TenantID), string(it.MenuItemID),
			it.TitleSnapshot, it.DescriptionSnapshot, it.ImageURLSnapshot, it.Qty, it.Notes,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, tenant_id, table_id, status, source, customer_note, created_at, updated_at
		FROM orders WHERE id = $1`, string(id),
	)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Store) GetWithItems(ctx context.Context, id types.ID) (*OrderWithItems, error) {
	row := s.db.QueryRow(ctx, `
		SELECT o.id, o.tenant_id, o.table_id, o.status, o.source, o.customer_note, o.created_at, o.updated_at,
		       t.display_name
		FROM orders o
		JOIN restaurant_tables t ON t.id = o.table_id
		WHERE o.id = $1`, string(id),
	)

	var out OrderWithItems
	err := row.Scan(
		&out.ID, &out.TenantID, &out.TableID, &out.Status, &out.Source,
		&out.CustomerNote, &out.CreatedAt, &out.UpdatedAt, &out.TableName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := s.itemsFor(ctx, []types.ID{out.ID})
	if err != nil {
		return nil, err
	}
	out.Items = items[out.ID]
	if out.Items == nil {
		out.Items = []Item{}
	}
	return &out, nil
}

func (s *Store) ListByTenantStatus(ctx context.Context, tenantID types.ID, status Status) ([]OrderWithItems, error) {
	return s.list(ctx, `
		SELECT o.id, o.tenant_id, o.table_id, o.status, o.source, o.customer_note, o.created_at, o.updated_at,
		       t.display_name
		FROM orders o
		JOIN restaurant_tables t ON t.id = o.table_id
		WHERE o.tenant_id = $1 AND o.status = $2
		ORDER BY o.created_at ASC`, string(tenantID), string(status))
}

func (s *Store) ListActiveByTenant(ctx context.Context, tenantID types.ID) ([]OrderWithItems, error) {
	return s.list(ctx, `
		SELECT o.id, o.tenant_id, o.table_id, o.status, o.source, o.customer_note, o.created_at, o.updated_at,
		       t.display_name
		FROM orders o
		JOIN restaurant_tables t ON t.id = o.table_id
		WHERE o.tenant_id = $1 AND o.status NOT IN ('closed', 'cancelled')
		ORDER BY o.created_at ASC`, string(tenantID))
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]OrderWithItems, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []OrderWithItems{}
	ids := []types.ID{}
	for rows.Next() {
		var o OrderWithItems
		err := rows.Scan(
			&o.ID, &o.TenantID, &o.TableID, &o.Status, &o.Source,
			&o.CustomerNote, &o.CreatedAt, &o.UpdatedAt, &o.TableName,
		)
		if err != nil {
			return nil, err
		}
		o.Items = []Item{}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	items, err := s.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if got := items[out[i].ID]; got != nil {
			out[i].Items = got
		}
	}
	return out, nil
}

func (s *Store) itemsFor(ctx context.Context, orderIDs []types.ID) (map[types.ID][]Item, error) {
	raw := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		raw[i] = string(id)
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, order_id, menu_item_id, title_snapshot, description_snapshot, image_url_snapshot, qty, notes
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id`, raw,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byOrder := make(map[types.ID][]Item)
	for rows.Next() {
		var it Item
		err := rows.Scan(
			&it.ID, &it.OrderID, &it.MenuItemID, &it.TitleSnapshot,
			&it.DescriptionSnapshot, &it.ImageURLSnapshot, &it.Qty, &it.Notes,
		)
		if err != nil {
			return nil, err
		}
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	return byOrder, rows.Err()
}

func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4`,
		string(to), time.Now().UTC(), string(id), string(from),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) AppendStatusEvent(ctx context.Context, e *StatusEvent) error {
	var actorID *string
	if e.ActorID != nil {
		v := string(*e.ActorID)
		actorID = &v
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO order_status_events (order_id, from_status, to_status, actor_type, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.OrderID), string(e.FromStatus), string(e.ToStatus),
		e.ActorType, actorID, e.CreatedAt,
	)
	return err
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.TenantID, &o.TableID, &o.Status, &o.Source,
		&o.CustomerNote, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
