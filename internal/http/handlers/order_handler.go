// Order handlers: public intake and staff transitions.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tably/internal/http/middleware"
	"tably/internal/modules/order"
	"tably/internal/types"
)

type OrderHandler struct {
	orders *order.Service
}

func NewOrderHandler(svc *order.Service) *OrderHandler {
	return &OrderHandler{orders: svc}
}

type createOrderItemReq struct {
	MenuItemID  string  `json:"menu_item_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Qty         int     `json:"qty"`
	Notes       *string `json:"notes,omitempty"`
}

type createOrderReq struct {
	CompanyCode  string               `json:"company_code"`
	TableID      string               `json:"table_id"`
	Items        []createOrderItemReq `json:"items"`
	CustomerNote *string              `json:"customer_note,omitempty"`
}

// Create is the public intake endpoint reached from a scanned QR code.
// No authentication: the tenant/table pairing is validated server side.
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.CompanyCode == "" || !types.IsValidID(req.TableID) {
		writeError(c, http.StatusBadRequest, "missing required fields")
		return
	}

	items := make([]order.CreateItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.CreateItem{
			MenuItemID:  types.ID(it.MenuItemID),
			Title:       it.Title,
			Description: it.Description,
			ImageURL:    it.ImageURL,
			Qty:         it.Qty,
			Notes:       it.Notes,
		}
	}

	o, err := h.orders.Create(c.Request.Context(), order.CreateCommand{
		TenantSlug:   req.CompanyCode,
		TableID:      types.ID(req.TableID),
		Items:        items,
		CustomerNote: req.CustomerNote,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"order_id":   o.ID,
		"created_at": o.CreatedAt,
	})
}

// Get serves the customer confirmation page's snapshot of one order.
func (h *OrderHandler) Get(c *gin.Context) {
	id := c.Param("order_id")
	if !types.IsValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid order id")
		return
	}
	o, err := h.orders.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	// The public route carries the table id; an order fetched under the
	// wrong table is treated as absent.
	if tid := c.Param("table_id"); tid != "" && o.TableID != types.ID(tid) {
		writeError(c, http.StatusNotFound, order.ErrNotFound.Error())
		return
	}
	c.JSON(http.StatusOK, o)
}

type transitionReq struct {
	Status string `json:"status"`
}

// Transition is the staff-only lifecycle endpoint.
func (h *OrderHandler) Transition(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "unauthenticated")
		return
	}
	id := c.Param("order_id")
	if !types.IsValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid order id")
		return
	}

	var req transitionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	target, ok := order.ParseStatus(req.Status)
	if !ok {
		writeError(c, http.StatusBadRequest, "unknown status")
		return
	}

	// Staff must not act across tenants even with a valid token; resolve
	// the order before mutating anything.
	existing, err := h.orders.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	if !actor.IsSuperadmin && existing.TenantID != actor.TenantID {
		writeError(c, http.StatusNotFound, order.ErrNotFound.Error())
		return
	}

	o, err := h.orders.Transition(c.Request.Context(), types.ID(id), target, order.Actor{
		Type: "staff",
		ID:   &actor.UserID,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// List serves the staff dashboards: ?status=preparing for one bucket, or
// all open orders when no status is given.
func (h *OrderHandler) List(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "unauthenticated")
		return
	}

	if raw := c.Query("status"); raw != "" {
		status, ok := order.ParseStatus(raw)
		if !ok {
			writeError(c, http.StatusBadRequest, "unknown status")
			return
		}
		out, err := h.orders.ListByStatus(c.Request.Context(), actor.TenantID, status)
		if err != nil {
			writeOrderError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
		return
	}

	out, err := h.orders.ListActive(c.Request.Context(), actor.TenantID)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
