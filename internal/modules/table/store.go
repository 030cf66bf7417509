// Table store backed by PostgreSQL.
package table

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tably/internal/types"
)

var ErrNotFound = errors.New("table not found")

type Storage interface {
	Create(ctx context.Context, t *Table) error
	Get(ctx context.Context, tenantID, id types.ID) (*Table, error)
	List(ctx context.Context, tenantID types.ID) ([]Table, error)
	Rename(ctx context.Context, tenantID, id types.ID, displayName string) error
	Delete(ctx context.Context, tenantID, id types.ID) error
	Exists(ctx context.Context, id, tenantID types.ID) (bool, error)
}

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, t *Table) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO restaurant_tables (id, tenant_id, display_name, created_at)
		VALUES ($1, $2, $3, $4)`,
		string(t.ID), string(t.TenantID), t.DisplayName, t.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, tenantID, id types.ID) (*Table, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, tenant_id, display_name, created_at
		FROM restaurant_tables WHERE id = $1 AND tenant_id = $2`,
		string(id), string(tenantID),
	)
	var t Table
	err := row.Scan(&t.ID, &t.TenantID, &t.DisplayName, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) List(ctx context.Context, tenantID types.ID) ([]Table, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, tenant_id, display_name, created_at
		FROM restaurant_tables WHERE tenant_id = $1 ORDER BY display_name`, string(tenantID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Table{}
	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.ID, &t.TenantID, &t.DisplayName, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Rename(ctx context.Context, tenantID, id types.ID, displayName string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE restaurant_tables SET display_name = $1 WHERE id = $2 AND tenant_id = $3`,
		displayName, string(id), string(tenantID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, tenantID, id types.ID) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM restaurant_tables WHERE id = $1 AND tenant_id = $2`,
		string(id), string(tenantID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, id, tenantID types.ID) (bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM restaurant_tables WHERE id = $1 AND tenant_id = $2)`,
		string(id), string(tenantID),
	)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
