// Package auth issues and verifies the bearer tokens staff and superadmins
// present. Login flows live in an external identity service; this package
// only turns a token into an Actor that is passed explicitly to every core
// operation.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tably/internal/modules/tenant"
	"tably/internal/types"
)

var ErrInvalidToken = errors.New("invalid token")

// Actor is the authenticated identity attached to a request.
type Actor struct {
	UserID       types.ID
	TenantID     types.ID
	Role         tenant.Role
	IsSuperadmin bool
}

func (a Actor) Capabilities() tenant.Capabilities {
	return tenant.RoleCapabilities(a.Role)
}

type Claims struct {
	TenantID     string `json:"tenant_id,omitempty"`
	Role         string `json:"role,omitempty"`
	IsSuperadmin bool   `json:"superadmin,omitempty"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 staff tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

func (t *Tokens) Issue(actor Actor) (string, error) {
	now := time.Now()
	claims := Claims{
		TenantID:     string(actor.TenantID),
		Role:         string(actor.Role),
		IsSuperadmin: actor.IsSuperadmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(actor.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *Tokens) Verify(tokenStr string) (Actor, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("invalid signing method")
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Actor{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return Actor{}, ErrInvalidToken
	}

	actor := Actor{
		UserID:       types.ID(claims.Subject),
		TenantID:     types.ID(claims.TenantID),
		IsSuperadmin: claims.IsSuperadmin,
	}
	if claims.Role != "" {
		role, ok := tenant.ParseRole(claims.Role)
		if !ok {
			return Actor{}, ErrInvalidToken
		}
		actor.Role = role
	}
	return actor, nil
}
