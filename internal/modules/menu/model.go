// Menu categories and items.
package menu

import (
	"time"

	"tably/internal/types"
)

type Category struct {
	ID        types.ID  `json:"id"`
	TenantID  types.ID  `json:"tenant_id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subcategory is a second grouping level under a category, e.g.
// "Mains" > "Pasta".
type Subcategory struct {
	ID         types.ID  `json:"id"`
	TenantID   types.ID  `json:"tenant_id"`
	CategoryID types.ID  `json:"category_id"`
	Name       string    `json:"name"`
	SortOrder  int       `json:"sort_order"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

type Item struct {
	ID            types.ID    `json:"id"`
	TenantID      types.ID    `json:"tenant_id"`
	CategoryID    *types.ID   `json:"category_id,omitempty"`
	SubcategoryID *types.ID   `json:"subcategory_id,omitempty"`
	Title         string      `json:"title"`
	Description   *string     `json:"description,omitempty"`
	Price         types.Money `json:"price"`
	ImageURL      *string     `json:"image_url,omitempty"`
	IsAvailable   bool        `json:"is_available"`
	SortOrder     int         `json:"sort_order"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
