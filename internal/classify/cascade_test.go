package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avillarreal/equilibrio/internal/domain"
	"github.com/avillarreal/equilibrio/internal/hierarchy"
)

func cascadeTree() *hierarchy.Tree {
	accounts := []domain.Account{
		{Code: "5.2", Name: "Costos fijos"},
		{Code: "5.2.1", Name: "Alquiler"},
		{Code: "5.2.2", Name: "Sueldos"},
		{Code: "5.2.2.1", Name: "Sueldos administrativos"},
	}
	return hierarchy.Resolve(accounts)
}

func TestCascade_AppliesToDescendants(t *testing.T) {
	tree := cascadeTree()
	prior := map[string]domain.Role{"5.2.1": domain.RoleVariableCost}

	result, err := Cascade(prior, "5.2", domain.RoleFixedCost, tree)
	require.NoError(t, err)

	assert.Equal(t, domain.RoleFixedCost, result.Overrides["5.2"])
	assert.Equal(t, domain.RoleFixedCost, result.Overrides["5.2.1"])
	assert.Equal(t, domain.RoleFixedCost, result.Overrides["5.2.2"])
	assert.Equal(t, domain.RoleFixedCost, result.Overrides["5.2.2.1"])
	assert.ElementsMatch(t, []string{"5.2.1", "5.2.2", "5.2.2.1"}, result.Cascaded)
	assert.Empty(t, result.Skipped)

	// The input map is never touched.
	assert.Equal(t, domain.RoleVariableCost, prior["5.2.1"])
	assert.NotContains(t, prior, "5.2")
}

func TestCascade_InvalidRoleRejected(t *testing.T) {
	tree := cascadeTree()
	prior := map[string]domain.Role{"5.2.1": domain.RoleFixedCost}

	result, err := Cascade(prior, "5.2", domain.RoleRevenue, tree)
	require.Error(t, err)
	assert.Nil(t, result)

	var engineErr *domain.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, domain.ErrKindInvalidClassification, engineErr.Kind)

	assert.Len(t, prior, 1, "A rejected cascade must leave the prior overrides intact")
}

func TestCascade_LeafHasNoDescendants(t *testing.T) {
	tree := cascadeTree()

	result, err := Cascade(map[string]domain.Role{}, "5.2.1", domain.RoleMixed, tree)
	require.NoError(t, err)

	assert.Equal(t, domain.RoleMixed, result.Overrides["5.2.1"])
	assert.Len(t, result.Overrides, 1)
	assert.Empty(t, result.Cascaded)
	assert.Empty(t, result.Skipped)
}

func TestRevertCascade_RemovesOnlyCascaded(t *testing.T) {
	tree := cascadeTree()
	prior := map[string]domain.Role{}

	result, err := Cascade(prior, "5.2", domain.RoleFixedCost, tree)
	require.NoError(t, err)

	reverted := RevertCascade(result.Overrides, result.Cascaded)
	assert.Equal(t, domain.RoleFixedCost, reverted["5.2"], "The parent's own override survives the revert")
	assert.NotContains(t, reverted, "5.2.1")
	assert.NotContains(t, reverted, "5.2.2")
	assert.NotContains(t, reverted, "5.2.2.1")

	// Revert copies; the cascade result map keeps the descendants.
	assert.Contains(t, result.Overrides, "5.2.1")
}
