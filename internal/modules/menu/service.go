// Menu service: CRUD over categories and items.
package menu

import (
	"context"
	"errors"
	"strings"
	"time"

	"tably/internal/types"
)

var ErrBadRequest = errors.New("bad request")

type Service struct {
	store Storage
}

func NewService(store Storage) *Service {
	return &Service{store: store}
}

type CategoryCommand struct {
	TenantID  types.ID
	Name      string
	SortOrder int
	IsActive  *bool
}

func (s *Service) CreateCategory(ctx context.Context, cmd CategoryCommand) (*Category, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, ErrBadRequest
	}
	now := time.Now().UTC()
	c := &Category{
		ID:        types.NewID(),
		TenantID:  cmd.TenantID,
		Name:      cmd.Name,
		SortOrder: cmd.SortOrder,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if cmd.IsActive != nil {
		c.IsActive = *cmd.IsActive
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListCategories(ctx context.Context, tenantID types.ID) ([]Category, error) {
	return s.store.ListCategories(ctx, tenantID)
}

func (s *Service) UpdateCategory(ctx context.Context, c *Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrBadRequest
	}
	return s.store.UpdateCategory(ctx, c)
}

func (s *Service) DeleteCategory(ctx context.Context, tenantID, id types.ID) error {
	return s.store.DeleteCategory(ctx, tenantID, id)
}

type SubcategoryCommand struct {
	TenantID   types.ID
	CategoryID types.ID
	Name       string
	SortOrder  int
	IsActive   *bool
}

func (s *Service) CreateSubcategory(ctx context.Context, cmd SubcategoryCommand) (*Subcategory, error) {
	if strings.TrimSpace(cmd.Name) == "" || cmd.CategoryID == "" {
		return nil, ErrBadRequest
	}
	sc := &Subcategory{
		ID:         types.NewID(),
		TenantID:   cmd.TenantID,
		CategoryID: cmd.CategoryID,
		Name:       cmd.Name,
		SortOrder:  cmd.SortOrder,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
	if cmd.IsActive != nil {
		sc.IsActive = *cmd.IsActive
	}
	if err := s.store.CreateSubcategory(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// ListSubcategories returns the tenant's subcategories, optionally
// narrowed to one category.
func (s *Service) ListSubcategories(ctx context.Context, tenantID types.ID, categoryID *types.ID) ([]Subcategory, error) {
	return s.store.ListSubcategories(ctx, tenantID, categoryID)
}

func (s *Service) UpdateSubcategory(ctx context.Context, sc *Subcategory) error {
	if strings.TrimSpace(sc.Name) == "" {
		return ErrBadRequest
	}
	return s.store.UpdateSubcategory(ctx, sc)
}

func (s *Service) DeleteSubcategory(ctx context.Context, tenantID, id types.ID) error {
	return s.store.DeleteSubcategory(ctx, tenantID, id)
}

type ItemCommand struct {
	TenantID      types.ID
	CategoryID    *types.ID
	SubcategoryID *types.ID
	Title         string
	Description   *string
	Price         types.Money
	ImageURL      *string
	IsAvailable   *bool
	SortOrder     int
}

func (s *Service) CreateItem(ctx context.Context, cmd ItemCommand) (*Item, error) {
	if strings.TrimSpace(cmd.Title) == "" || cmd.Price.Amount < 0 {
		return nil, ErrBadRequest
	}
	now := time.Now().UTC()
	it := &Item{
		ID:            types.NewID(),
		TenantID:      cmd.TenantID,
		CategoryID:    cmd.CategoryID,
		SubcategoryID: cmd.SubcategoryID,
		Title:         cmd.Title,
		Description:   cmd.Description,
		Price:         cmd.Price,
		ImageURL:      cmd.ImageURL,
		IsAvailable:   true,
		SortOrder:     cmd.SortOrder,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if cmd.IsAvailable != nil {
		it.IsAvailable = *cmd.IsAvailable
	}
	if err := s.store.CreateItem(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *Service) GetItem(ctx context.Context, tenantID, id types.ID) (*Item, error) {
	return s.store.GetItem(ctx, tenantID, id)
}

// ListItems returns the staff view (everything) or, with onlyAvailable,
// the customer-facing menu.
func (s *Service) ListItems(ctx context.Context, tenantID types.ID, onlyAvailable bool) ([]Item, error) {
	return s.store.ListItems(ctx, tenantID, onlyAvailable)
}

func (s *Service) UpdateItem(ctx context.Context, it *Item) error {
	if strings.TrimSpace(it.Title) == "" || it.Price.Amount < 0 {
		return ErrBadRequest
	}
	return s.store.UpdateItem(ctx, it)
}

func (s *Service) DeleteItem(ctx context.Context, tenantID, id types.ID) error {
	return s.store.DeleteItem(ctx, tenantID, id)
}
