// Menu store backed by PostgreSQL.
package menu

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tably/internal/types"
)

var ErrNotFound = errors.New("menu entry not found")

type Storage interface {
	CreateCategory(ctx context.Context, c *Category) error
	ListCategories(ctx context.Context, tenantID types.ID) ([]Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, tenantID, id types.ID) error

	CreateSubcategory(ctx context.Context, sc *Subcategory) error
	// ListSubcategories returns all subcategories for the tenant, or only
	// those under categoryID when it is non-nil.
	ListSubcategories(ctx context.Context, tenantID types.ID, categoryID *types.ID) ([]Subcategory, error)
	UpdateSubcategory(ctx context.Context, sc *Subcategory) error
	DeleteSubcategory(ctx context.Context, tenantID, id types.ID) error

	CreateItem(ctx context.Context, it *Item) error
	GetItem(ctx context.Context, tenantID, id types.ID) (*Item, error)
	ListItems(ctx context.Context, tenantID types.ID, onlyAvailable bool) ([]Item, error)
	UpdateItem(ctx context.Context, it *Item) error
	DeleteItem(ctx context.Context, tenantID, id types.ID) error
}

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) CreateCategory(ctx context.Context, c *Category) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO menu_categories (id, tenant_id, name, sort_order, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		string(c.ID), string(c.TenantID), c.Name, c.SortOrder, c.IsActive, c.CreatedAt,
	)
	return err
}

func (s *Store) ListCategories(ctx context.Context, tenantID types.ID) ([]Category, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, tenant_id, name, sort_order, is_active, created_at, updated_at
		FROM menu_categories WHERE tenant_id = $1 ORDER BY sort_order, name`, string(tenantID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateCategory(ctx context.Context, c *Category) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE menu_categories SET name = $1, sort_order = $2, is_active = $3, updated_at = now()
		WHERE id = $4 AND tenant_id = $5`,
		c.Name, c.SortOrder, c.IsActive, string(c.ID), string(c.TenantID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, tenantID, id types.ID) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM menu_categories WHERE id = $1 AND tenant_id = $2`,
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

func (s *Store) CreateSubcategory(ctx context.Context, sc *Subcategory) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO menu_subcategories (id, tenant_id, category_id, name, sort_order, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(sc.ID), string(sc.TenantID), string(sc.CategoryID), sc.Name, sc.SortOrder, sc.IsActive, sc.CreatedAt,
	)
	return err
}

func (s *Store) ListSubcategories(ctx context.Context, tenantID types.ID, categoryID *types.ID) ([]Subcategory, error) {
	query := `
		SELECT id, tenant_id, category_id, name, sort_order, is_active, created_at
		FROM menu_subcategories WHERE tenant_id = $1`
	args := []any{string(tenantID)}
	if categoryID != nil {
		query += ` AND category_id = $2`
		args = append(args, string(*categoryID))
	}
	query += ` ORDER BY sort_order, name`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Subcategory{}
	for rows.Next() {
		var sc Subcategory
		if err := rows.Scan(&sc.ID, &sc.TenantID, &sc.CategoryID, &sc.Name, &sc.SortOrder, &sc.IsActive, &sc.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *Store) UpdateSubcategory(ctx context.Context, sc *Subcategory) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE menu_subcategories SET name = $1, sort_order = $2, is_active = $3
		WHERE id = $4 AND tenant_id = $5`,
		sc.Name, sc.SortOrder, sc.IsActive, string(sc.ID), string(sc.TenantID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteSubcategory(ctx context.Context, tenantID, id types.ID) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM menu_subcategories WHERE id = $1 AND tenant_id = $2`,
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

func (s *Store) CreateItem(ctx context.Context, it *Item) error {
	categoryID := idPtr(it.CategoryID)
	subcategoryID := idPtr(it.SubcategoryID)
	_, err := s.db.Exec(ctx, `
		INSERT INTO menu_items (id, tenant_id, category_id, subcategory_id, title, description, price_cents, currency, image_url, is_available, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`,
		string(it.ID), string(it.TenantID), categoryID, subcategoryID, it.Title, it.Description,
		it.Price.Amount, it.Price.Currency, it.ImageURL, it.IsAvailable, it.SortOrder, it.CreatedAt,
	)
	return err
}

func (s *Store) GetItem(ctx context.Context, tenantID, id types.ID) (*Item, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, tenant_id, category_id, subcategory_id, title, description, price_cents, currency, image_url, is_available, sort_order, created_at, updated_at
		FROM menu_items WHERE id = $1 AND tenant_id = $2`,
		string(id), string(tenantID),
	)
	it, err := scanItem(row)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (s *Store) ListItems(ctx context.Context, tenantID types.ID, onlyAvailable bool) ([]Item, error) {
	query := `
		SELECT id, tenant_id, category_id, subcategory_id, title, description, price_cents, currency, image_url, is_available, sort_order, created_at, updated_at
		FROM menu_items WHERE tenant_id = $1`
	if onlyAvailable {
		query += ` AND is_available`
	}
	query += ` ORDER BY sort_order, title`

	rows, err := s.db.Query(ctx, query, string(tenantID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

func (s *Store) UpdateItem(ctx context.Context, it *Item) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE menu_items
		SET category_id = $1, subcategory_id = $2, title = $3, description = $4, price_cents = $5,
		    currency = $6, image_url = $7, is_available = $8, sort_order = $9, updated_at = now()
		WHERE id = $10 AND tenant_id = $11`,
		idPtr(it.CategoryID), idPtr(it.SubcategoryID), it.Title, it.Description, it.Price.Amount,
		it.Price.Currency, it.ImageURL, it.IsAvailable, it.SortOrder, string(it.ID), string(it.TenantID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, tenantID, id types.ID) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM menu_items WHERE id = $1 AND tenant_id = $2`,
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

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	var categoryID, subcategoryID *string
	err := row.Scan(
		&it.ID, &it.TenantID, &categoryID, &subcategoryID, &it.Title, &it.Description,
		&it.Price.Amount, &it.Price.Currency, &it.ImageURL, &it.IsAvailable,
		&it.SortOrder, &it.CreatedAt, &it.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if categoryID != nil {
		v := types.ID(*categoryID)
		it.CategoryID = &v
	}
	if subcategoryID != nil {
		v := types.ID(*subcategoryID)
		it.SubcategoryID = &v
	}
	return &it, nil
}

// idPtr converts an optional typed id into the nullable string pgx binds.
func idPtr(id *types.ID) *string {
	if id == nil {
		return nil
	}
	v := string(*id)
	return &v
}
