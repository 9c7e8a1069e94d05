// Package hierarchy resolves the parent/child structure implied by
// dot-segmented account codes. Only leaf accounts are aggregated
// downstream; parent rows carry rolled-up totals that would double
// count their children.
package hierarchy

import (
	"sort"
	"strings"

	"github.com/avillarreal/equilibrio/internal/domain"
)

// Node is one resolved account in the tree.
type Node struct {
	Account  *domain.Account
	IsLeaf   bool
	Children []string // direct child codes, sorted
}

// Tree indexes resolved nodes by account code.
type Tree struct {
	nodes map[string]*Node
	codes []string // all codes, sorted
}

// Resolve builds the tree for one account list. A code P is the parent
// of C iff C starts with P+"." and has exactly one more dot segment.
// An account with zero children is a leaf regardless of its name.
func Resolve(accounts []domain.Account) *Tree {
	t := &Tree{nodes: make(map[string]*Node, len(accounts))}
	for i := range accounts {
		acct := &accounts[i]
		t.nodes[acct.Code] = &Node{Account: acct, IsLeaf: true}
		t.codes = append(t.codes, acct.Code)
	}
	sort.Strings(t.codes)

	for _, code := range t.codes {
		parent, ok := t.nodes[parentCode(code)]
		if !ok {
			continue
		}
		parent.IsLeaf = false
		parent.Children = append(parent.Children, code)
	}
	return t
}

func parentCode(code string) string {
	idx := strings.LastIndex(code, ".")
	if idx < 0 {
		return ""
	}
	return code[:idx]
}

// Node returns the resolved node for a code.
func (t *Tree) Node(code string) (*Node, bool) {
	n, ok := t.nodes[code]
	return n, ok
}

// IsLeaf reports whether a code has no direct children. Unknown codes
// are not leaves.
func (t *Tree) IsLeaf(code string) bool {
	n, ok := t.nodes[code]
	return ok && n.IsLeaf
}

// Leaves returns the leaf accounts in sorted code order.
func (t *Tree) Leaves() []*domain.Account {
	leaves := make([]*domain.Account, 0, len(t.codes))
	for _, code := range t.codes {
		if n := t.nodes[code]; n.IsLeaf {
			leaves = append(leaves, n.Account)
		}
	}
	return leaves
}

// Descendants returns every code below the given code, at any depth,
// in sorted order. The code itself is excluded.
func (t *Tree) Descendants(code string) []string {
	prefix := code + "."
	var out []string
	for _, c := range t.codes {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}
