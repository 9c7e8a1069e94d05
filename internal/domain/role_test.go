package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidForCode_RevenueBranch(t *testing.T) {
	for _, code := range []string{"4", "4.1", "4.2.7"} {
		assert.True(t, RoleRevenue.ValidForCode(code), "code %s", code)
		assert.False(t, RoleFixedCost.ValidForCode(code), "code %s", code)
		assert.False(t, RoleVariableCost.ValidForCode(code), "code %s", code)
		assert.False(t, RoleMixed.ValidForCode(code), "code %s", code)
	}
}

func TestValidForCode_CostBranch(t *testing.T) {
	for _, code := range []string{"5", "5.1", "5.2.1.3"} {
		assert.False(t, RoleRevenue.ValidForCode(code), "code %s", code)
		assert.True(t, RoleFixedCost.ValidForCode(code), "code %s", code)
		assert.True(t, RoleVariableCost.ValidForCode(code), "code %s", code)
		assert.True(t, RoleMixed.ValidForCode(code), "code %s", code)
	}
}

func TestValidForCode_PrefixNotSubstring(t *testing.T) {
	// 41 and 54 are outside both branches; every role is allowed.
	for _, role := range AllRoles {
		assert.True(t, role.ValidForCode("41"))
		assert.True(t, role.ValidForCode("54.1"))
	}
}

func TestParseRole_RoundTrip(t *testing.T) {
	for _, role := range AllRoles {
		parsed, err := ParseRole(role.String())
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}

	_, err := ParseRole("semi_fixed")
	assert.Error(t, err)
}
