// Tenant aggregate, membership and role definitions.
package tenant

import (
	"time"

	"tably/internal/types"
)

type Tenant struct {
	ID                 types.ID  `json:"id"`
	Name               string    `json:"name"`
	Slug               string    `json:"slug"`
	LogoURL            *string   `json:"logo_url,omitempty"`
	SubscriptionTier   string    `json:"subscription_tier"`
	SubscriptionStatus string    `json:"subscription_status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

const (
	TierFree    = "free"
	TierBasic   = "basic"
	TierPremium = "premium"

	StatusActive    = "active"
	StatusSuspended = "suspended"
)

type Role string

const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
	RoleWaiter  Role = "waiter"
	RoleKitchen Role = "kitchen"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOwner, RoleAdmin, RoleManager, RoleStaff, RoleWaiter, RoleKitchen:
		return Role(s), true
	}
	return "", false
}

type Member struct {
	ID        types.ID  `json:"id"`
	TenantID  types.ID  `json:"tenant_id"`
	UserID    types.ID  `json:"user_id"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
