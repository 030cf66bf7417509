package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tably/internal/modules/tenant"
	"tably/internal/types"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	in := Actor{
		UserID:   types.NewID(),
		TenantID: types.NewID(),
		Role:     tenant.RoleKitchen,
	}

	raw, err := tokens.Issue(in)
	require.NoError(t, err)

	out, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.False(t, out.Capabilities().ManageMenu)
	assert.True(t, out.Capabilities().ManageOrders)
}

func TestVerifySuperadmin(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	raw, err := tokens.Issue(Actor{UserID: types.NewID(), IsSuperadmin: true})
	require.NoError(t, err)

	out, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.True(t, out.IsSuperadmin)
	assert.Empty(t, out.TenantID)
	// No role means no tenant capabilities; superadmin checks are separate.
	assert.Equal(t, tenant.Capabilities{}, out.Capabilities())
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	raw, err := NewTokens("secret-a", time.Hour).Issue(Actor{UserID: types.NewID()})
	require.NoError(t, err)

	_, err = NewTokens("secret-b", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	tokens := NewTokens("test-secret", time.Millisecond)
	raw, err := tokens.Issue(Actor{UserID: types.NewID()})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = tokens.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := tokens.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", raw)
	}
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	raw, err := tokens.Issue(Actor{UserID: types.NewID(), Role: tenant.Role("root")})
	require.NoError(t, err)

	_, err = tokens.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
