package hierarchy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avillarreal/equilibrio/internal/domain"
)

func makeAccounts(codes ...string) []domain.Account {
	accounts := make([]domain.Account, 0, len(codes))
	for _, code := range codes {
		accounts = append(accounts, domain.Account{
			Code:          code,
			Name:          "account " + code,
			MonthlyValues: map[string]decimal.Decimal{"2024-01": decimal.NewFromInt(100)},
		})
	}
	return accounts
}

func TestResolve_ParentChild(t *testing.T) {
	tree := Resolve(makeAccounts("5", "5.1", "5.1.1", "5.1.2", "5.2"))

	root, ok := tree.Node("5")
	require.True(t, ok)
	assert.False(t, root.IsLeaf, "Parent with children should not be a leaf")
	assert.Equal(t, []string{"5.1", "5.2"}, root.Children)

	mid, ok := tree.Node("5.1")
	require.True(t, ok)
	assert.False(t, mid.IsLeaf)
	assert.Equal(t, []string{"5.1.1", "5.1.2"}, mid.Children)

	assert.True(t, tree.IsLeaf("5.1.1"))
	assert.True(t, tree.IsLeaf("5.1.2"))
	assert.True(t, tree.IsLeaf("5.2"))
}

func TestResolve_OnlyDirectChildren(t *testing.T) {
	// 5.1.1 is a grandchild of 5, not a direct child.
	tree := Resolve(makeAccounts("5", "5.1", "5.1.1"))

	root, ok := tree.Node("5")
	require.True(t, ok)
	assert.Equal(t, []string{"5.1"}, root.Children)
}

func TestResolve_MultiDigitSegments(t *testing.T) {
	// 5.1.10 must attach to 5.1, and 5.10 must not be confused with
	// a child of 5.1.
	tree := Resolve(makeAccounts("5.1", "5.1.1", "5.1.10", "5.10"))

	mid, ok := tree.Node("5.1")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"5.1.1", "5.1.10"}, mid.Children)
	assert.True(t, tree.IsLeaf("5.10"))
}

func TestResolve_ChildlessAccountIsLeaf(t *testing.T) {
	// Same name as a parent elsewhere does not matter; leafness is
	// purely structural.
	accounts := makeAccounts("5.1", "5.2")
	accounts[1].Name = accounts[0].Name
	tree := Resolve(accounts)

	assert.True(t, tree.IsLeaf("5.1"))
	assert.True(t, tree.IsLeaf("5.2"))
}

func TestLeaves_ExcludesParents(t *testing.T) {
	tree := Resolve(makeAccounts("4", "4.1", "5", "5.1", "5.1.1"))

	leaves := tree.Leaves()
	codes := make([]string, 0, len(leaves))
	for _, l := range leaves {
		codes = append(codes, l.Code)
	}
	assert.Equal(t, []string{"4.1", "5.1.1"}, codes)
}

func TestDescendants(t *testing.T) {
	tree := Resolve(makeAccounts("5", "5.1", "5.1.1", "5.2", "4.1"))

	assert.Equal(t, []string{"5.1", "5.1.1", "5.2"}, tree.Descendants("5"))
	assert.Equal(t, []string{"5.1.1"}, tree.Descendants("5.1"))
	assert.Empty(t, tree.Descendants("4.1"))
}

func TestIsLeaf_UnknownCode(t *testing.T) {
	tree := Resolve(makeAccounts("5.1"))
	assert.False(t, tree.IsLeaf("9.9"))
}
