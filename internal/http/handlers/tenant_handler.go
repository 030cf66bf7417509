// Tenant handlers: superadmin tenant control plus staff administration.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tably/internal/http/middleware"
	"tably/internal/modules/audit"
	"tably/internal/modules/tenant"
	"tably/internal/types"
)

type TenantHandler struct {
	tenants *tenant.Service
	audits  *audit.Store
}

func NewTenantHandler(tenants *tenant.Service, audits *audit.Store) *TenantHandler {
	return &TenantHandler{tenants: tenants, audits: audits}
}

type createTenantReq struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	OwnerUserID string `json:"owner_user_id"`
	Tier        string `json:"tier,omitempty"`
}

func (h *TenantHandler) Create(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	var req createTenantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	t, err := h.tenants.Create(c.Request.Context(), tenant.CreateCommand{
		Name:        req.Name,
		Slug:        req.Slug,
		OwnerUserID: types.ID(req.OwnerUserID),
		Tier:        req.Tier,
	}, actor.UserID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TenantHandler) List(c *gin.Context) {
	out, err := h.tenants.List(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *TenantHandler) Suspend(c *gin.Context) {
	h.setStatus(c, h.tenants.Suspend)
}

func (h *TenantHandler) Resume(c *gin.Context) {
	h.setStatus(c, h.tenants.Resume)
}

func (h *TenantHandler) setStatus(c *gin.Context, op func(ctx context.Context, id, actor types.ID) error) {
	actor, _ := middleware.ActorFrom(c)
	id := c.Param("tenant_id")
	if !types.IsValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid tenant id")
		return
	}
	if err := op(c.Request.Context(), types.ID(id), actor.UserID); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TenantHandler) Delete(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	id := c.Param("tenant_id")
	if !types.IsValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid tenant id")
		return
	}
	if err := h.tenants.Delete(c.Request.Context(), types.ID(id), actor.UserID); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Settings serves the actor's own restaurant profile.
func (h *TenantHandler) Settings(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	t, err := h.tenants.Get(c.Request.Context(), actor.TenantID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

type updateSettingsReq struct {
	Name    *string `json:"name,omitempty"`
	LogoURL *string `json:"logo_url,omitempty"`
}

func (h *TenantHandler) UpdateSettings(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	var req updateSettingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	t, err := h.tenants.UpdateProfile(c.Request.Context(), tenant.ProfileUpdateCommand{
		TenantID: actor.TenantID,
		Name:     req.Name,
		LogoURL:  req.LogoURL,
	}, actor.UserID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TenantHandler) AuditLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	out, err := h.audits.List(c.Request.Context(), limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *TenantHandler) ListMembers(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	out, err := h.tenants.ListMembers(c.Request.Context(), actor.TenantID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type addMemberReq struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (h *TenantHandler) AddMember(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	var req addMemberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	role, ok := tenant.ParseRole(req.Role)
	if !ok || !types.IsValidID(req.UserID) {
		writeError(c, http.StatusBadRequest, "invalid user or role")
		return
	}
	m, err := h.tenants.AddMember(c.Request.Context(), tenant.MemberAddCommand{
		TenantID: actor.TenantID,
		UserID:   types.ID(req.UserID),
		Role:     role,
	}, actor.UserID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

type updateMemberReq struct {
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (h *TenantHandler) UpdateMember(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	userID := c.Param("user_id")
	if !types.IsValidID(userID) {
		writeError(c, http.StatusBadRequest, "invalid user id")
		return
	}
	var req updateMemberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cmd := tenant.MemberUpdateCommand{
		TenantID: actor.TenantID,
		UserID:   types.ID(userID),
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role, ok := tenant.ParseRole(*req.Role)
		if !ok {
			writeError(c, http.StatusBadRequest, "invalid role")
			return
		}
		cmd.Role = &role
	}
	m, err := h.tenants.UpdateMember(c.Request.Context(), cmd, actor.UserID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
