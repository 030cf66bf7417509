// Tenant store backed by PostgreSQL.
package tenant

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tably/internal/types"
)

var (
	ErrNotFound      = errors.New("tenant not found")
	ErrSlugTaken     = errors.New("tenant slug already in use")
	ErrMemberExists  = errors.New("user is already a member")
	ErrMemberMissing = errors.New("membership not found")
)

type Storage interface {
	Create(ctx context.Context, t *Tenant) error
	Get(ctx context.Context, id types.ID) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	List(ctx context.Context) ([]Tenant, error)
	SetStatus(ctx context.Context, id types.ID, status string) error
	UpdateProfile(ctx context.Context, t *Tenant) error
	// Delete removes the tenant; orders, menu and tables cascade via FK.
	Delete(ctx context.Context, id types.ID) error

	AddMember(ctx context.Context, m *Member) error
	ListMembers(ctx context.Context, tenantID types.ID) ([]Member, error)
	GetMember(ctx context.Context, tenantID, userID types.ID) (*Member, error)
	UpdateMember(ctx context.Context, m *Member) error
}

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, t *Tenant) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO tenants (id, name, slug, logo_url, subscription_tier, subscription_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		string(t.ID), t.Name, t.Slug, t.LogoURL,
		t.SubscriptionTier, t.SubscriptionStatus, t.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Tenant, error) {
	return s.getBy(ctx, "id", string(id))
}

func (s *Store) GetBySlug(ctx context.Context, slug string) (*Tenant, error) {
	return s.getBy(ctx, "slug", slug)
}

func (s *Store) getBy(ctx context.Context, col, val string) (*Tenant, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, slug, logo_url, subscription_tier, subscription_status, created_at, updated_at
		FROM tenants WHERE `+col+` = $1`, val,
	)
	var t Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.LogoURL, &t.SubscriptionTier, &t.SubscriptionStatus, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) List(ctx context.Context) ([]Tenant, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, slug, logo_url, subscription_tier, subscription_status, created_at, updated_at
		FROM tenants ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Tenant{}
	for rows.Next() {
		var t Tenant
		err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.LogoURL, &t.SubscriptionTier, &t.SubscriptionStatus, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) SetStatus(ctx context.Context, id types.ID, status string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE tenants SET subscription_status = $1, updated_at = now() WHERE id = $2`,
		status, string(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateProfile(ctx context.Context, t *Tenant) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE tenants SET name = $1, logo_url = $2, updated_at = now() WHERE id = $3`,
		t.Name, t.LogoURL, string(t.ID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id types.ID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) AddMember(ctx context.Context, m *Member) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO tenant_members (id, tenant_id, user_id, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		string(m.ID), string(m.TenantID), string(m.UserID), string(m.Role), m.IsActive, m.CreatedAt,
	)
	return err
}

func (s *Store) ListMembers(ctx context.Context, tenantID types.ID) ([]Member, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, tenant_id, user_id, role, is_active, created_at, updated_at
		FROM tenant_members WHERE tenant_id = $1 ORDER BY created_at`, string(tenantID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Member{}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.TenantID, &m.UserID, &m.Role, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) GetMember(ctx context.Context, tenantID, userID types.ID) (*Member, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, tenant_id, user_id, role, is_active, created_at, updated_at
		FROM tenant_members WHERE tenant_id = $1 AND user_id = $2`,
		string(tenantID), string(userID),
	)
	var m Member
	err := row.Scan(&m.ID, &m.TenantID, &m.UserID, &m.Role, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMemberMissing
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) UpdateMember(ctx context.Context, m *Member) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE tenant_members SET role = $1, is_active = $2, updated_at = now() WHERE id = $3`,
		string(m.Role), m.IsActive, string(m.ID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMemberMissing
	}
	return nil
}
