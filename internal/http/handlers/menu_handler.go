// Menu handlers: staff CRUD plus the public customer menu.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tably/internal/http/middleware"
	"tably/internal/modules/menu"
	"tably/internal/modules/order"
	"tably/internal/types"
)

type MenuHandler struct {
	menu    *menu.Service
	tenants order.TenantResolver
}

func NewMenuHandler(svc *menu.Service, tenants order.TenantResolver) *MenuHandler {
	return &MenuHandler{menu: svc, tenants: tenants}
}

type categoryReq struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

func (h *MenuHandler) CreateCategory(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	out, err := h.menu.CreateCategory(c.Request.Context(), menu.CategoryCommand{
		TenantID:  actor.TenantID,
		Name:      req.Name,
		SortOrder: req.SortOrder,
		IsActive:  req.IsActive,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *MenuHandler) ListCategories(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	out, err := h.menu.ListCategories(c.Request.Context(), actor.TenantID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MenuHandler) UpdateCategory(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	id := c.Param("category_id")
	if !types.IsValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid category id")
		return
	}
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cat := &menu.Category{
		ID:        types.ID(id),
		TenantID:  actor.TenantID,
		Name:      req.Name,
		SortOrder: req.SortOrder,
		IsActive:  true,
	}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}
	if err := h.menu.UpdateCategory(c.Request.Context(), cat); err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *MenuHandler) DeleteCategory(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	id := c.Param("category_id")
	if !types.IsValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid category id")
		return
	}
	if err := h.menu.DeleteCategory(c.Request.Context(), actor.TenantID, types.ID(id)); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type subcategoryReq struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	SortOrder  int    `json:"sort_order"`
	IsActive   *bool  `json:"is_active,omitempty"`
}

func (h *MenuHandler) CreateSubcategory(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	var req subcategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if !types.IsValidID(req.CategoryID) {
		writeError(c, http.StatusBadRequest, "invalid category id")
		return
	}
	out, err := h.menu.CreateSubcategory(c.Request.Context(), menu.SubcategoryCommand{
		TenantID:   actor.TenantID,
		CategoryID: types.ID(req.CategoryID),
		Name:       req.Name,
		SortOrder:  req.SortOrder,
		IsActive:   req.IsActive,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// ListSubcategories serves all subcategories, or one category's with
// ?category_id=.
func (h *MenuHandler) ListSubcategories(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	var categoryID *types.ID
	if raw := c.Query("category_id"); raw != "" {
		if !types.IsValidID(raw) {
			writeError(c, http.StatusBadRequest, "invalid category id")
			return
		}
		v := types.ID(raw)
		categoryID = &v
	}
	out, err := h.menu.ListSubcategories(c.Request.Context(), actor.TenantID, categoryID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MenuHandler) UpdateSubcategory(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	id := c.Param("subcategory_id")
	if !types.IsValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid subcategory id")
		return
	}
	var req subcategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	sc := &menu.Subcategory{
		ID:         types.ID(id),
		TenantID:   actor.TenantID,
		CategoryID: types.ID(req.CategoryID),
		Name:       req.Name,
		SortOrder:  req.SortOrder,
		IsActive:   true,
	}
	if req.IsActive != nil {
		sc.IsActive = *req.IsActive
	}
	if err := h.menu.UpdateSubcategory(c.Request.Context(), sc); err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (h *MenuHandler) DeleteSubcategory(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	id := c.Param("subcategory_id")
	if !types.IsValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid subcategory id")
		return
	}
	if err := h.menu.DeleteSubcategory(c.Request.Context(), actor.TenantID, types.ID(id)); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type itemReq struct {
	CategoryID    *string `json:"category_id,omitempty"`
	SubcategoryID *string `json:"subcategory_id,omitempty"`
	Title         string  `json:"title"`
	Description   *string `json:"description,omitempty"`
	PriceCents    int64   `json:"price_cents"`
	Currency      string  `json:"currency"`
	ImageURL      *string `json:"image_url,omitempty"`
	IsAvailable   *bool   `json:"is_available,omitempty"`
	SortOrder     int     `json:"sort_order"`
}

func optionalID(raw *string) *types.ID {
	if raw == nil {
		return nil
	}
	v := types.ID(*raw)
	return &v
}

func (h *MenuHandler) CreateItem(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	var req itemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	out, err := h.menu.CreateItem(c.Request.Context(), menu.ItemCommand{
		TenantID:      actor.TenantID,
		CategoryID:    optionalID(req.CategoryID),
		SubcategoryID: optionalID(req.SubcategoryID),
		Title:         req.Title,
		Description:   req.Description,
		Price:         types.Money{Amount: req.PriceCents, Currency: req.Currency},
		ImageURL:      req.ImageURL,
		IsAvailable:   req.IsAvailable,
		SortOrder:     req.SortOrder,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *MenuHandler) ListItems(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	out, err := h.menu.ListItems(c.Request.Context(), actor.TenantID, false)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MenuHandler) UpdateItem(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	id := c.Param("item_id")
	if !types.IsValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid item id")
		return
	}
	var req itemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	it, err := h.menu.GetItem(c.Request.Context(), actor.TenantID, types.ID(id))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	it.CategoryID = optionalID(req.CategoryID)
	it.SubcategoryID = optionalID(req.SubcategoryID)
	it.Title = req.Title
	it.Description = req.Description
	it.Price = types.Money{Amount: req.PriceCents, Currency: req.Currency}
	it.ImageURL = req.ImageURL
	if req.IsAvailable != nil {
		it.IsAvailable = *req.IsAvailable
	}
	it.SortOrder = req.SortOrder
	if err := h.menu.UpdateItem(c.Request.Context(), it); err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *MenuHandler) DeleteItem(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	id := c.Param("item_id")
	if !types.IsValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid item id")
		return
	}
	if err := h.menu.DeleteItem(c.Request.Context(), actor.TenantID, types.ID(id)); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PublicMenu serves available items for the customer page, resolved by
// tenant slug.
func (h *MenuHandler) PublicMenu(c *gin.Context) {
	slug := c.Param("company_code")
	tenantID, ok, err := h.tenants.TenantIDBySlug(c.Request.Context(), slug)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeError(c, http.StatusNotFound, "unknown restaurant")
		return
	}
	out, err := h.menu.ListItems(c.Request.Context(), tenantID, true)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
