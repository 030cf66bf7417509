// Table handlers: staff CRUD and QR target lookup.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tably/internal/http/middleware"
	"tably/internal/modules/table"
	"tably/internal/modules/tenant"
	"tably/internal/types"
)

type TableHandler struct {
	tables  *table.Service
	tenants *tenant.Service
}

func NewTableHandler(tables *table.Service, tenants *tenant.Service) *TableHandler {
	return &TableHandler{tables: tables, tenants: tenants}
}

type tableReq struct {
	DisplayName string `json:"display_name"`
}

func (h *TableHandler) Create(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	var req tableReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	t, err := h.tables.Create(c.Request.Context(), actor.TenantID, req.DisplayName)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TableHandler) List(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	out, err := h.tables.List(c.Request.Context(), actor.TenantID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *TableHandler) Rename(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	id := c.Param("table_id")
	if !types.IsValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid table id")
		return
	}
	var req tableReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.tables.Rename(c.Request.Context(), actor.TenantID, types.ID(id), req.DisplayName); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TableHandler) Delete(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	id := c.Param("table_id")
	if !types.IsValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid table id")
		return
	}
	if err := h.tables.Delete(c.Request.Context(), actor.TenantID, types.ID(id)); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// QRTarget returns the URL the table's printed QR code should encode.
func (h *TableHandler) QRTarget(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	id := c.Param("table_id")
	if !types.IsValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid table id")
		return
	}
	if _, err := h.tables.Get(c.Request.Context(), actor.TenantID, types.ID(id)); err != nil {
		writeDomainError(c, err)
		return
	}
	t, err := h.tenants.Get(c.Request.Context(), actor.TenantID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url": h.tables.QRTarget(t.Slug, types.ID(id)),
	})
}
