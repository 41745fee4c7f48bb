package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildClaimsIdentity_ExactClaimSet(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct{ userName, userID string }{
		{"alice", "42"},
		{"bob@example.com", "7f9c1c1e-4d7b-4bde-9c5c-1f6a3e2b9d10"},
		{"", ""},
	} {
		identity := BuildClaimsIdentity(tc.userName, tc.userID)

		assert.Equal(t, tc.userName, identity.Name)
		assert.Equal(t, AuthenticationTypeToken, identity.AuthenticationType)
		assert.Equal(t, []Claim{
			{Name: ClaimUserID, Value: tc.userID},
			{Name: ClaimRole, Value: RoleAPIAccess},
		}, identity.Claims)
	}
}

func TestClaimsIdentity_FindFirst(t *testing.T) {
	t.Parallel()
	identity := &ClaimsIdentity{Claims: []Claim{
		{Name: ClaimRole, Value: "a"},
		{Name: ClaimRole, Value: "b"},
	}}

	claim, ok := identity.FindFirst(ClaimRole)
	assert.True(t, ok)
	assert.Equal(t, "a", claim.Value)

	_, ok = identity.FindFirst(ClaimUserID)
	assert.False(t, ok)
}

func TestClaimsIdentity_NilReceiver(t *testing.T) {
	t.Parallel()
	var identity *ClaimsIdentity

	_, ok := identity.FindFirst(ClaimRole)
	assert.False(t, ok)
	assert.False(t, identity.HasClaim(ClaimRole, RoleAPIAccess))
}

func TestClaimsIdentity_HasClaim(t *testing.T) {
	t.Parallel()
	identity := BuildClaimsIdentity("alice", "42")

	assert.True(t, identity.HasClaim(ClaimRole, RoleAPIAccess))
	assert.True(t, identity.HasClaim(ClaimUserID, "42"))
	assert.False(t, identity.HasClaim(ClaimRole, "admin"))
}
