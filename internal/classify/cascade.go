package classify

import (
	"fmt"

	"github.com/avillarreal/equilibrio/internal/domain"
	"github.com/avillarreal/equilibrio/internal/hierarchy"
)

// CascadeResult is the outcome of reclassifying a parent account. The
// new override map is built locally and committed whole; the previous
// map is never mutated while descendants are being derived from it.
type CascadeResult struct {
	Overrides map[string]domain.Role // full replacement map
	Cascaded  []string               // descendant codes changed by the cascade
	Skipped   []string               // descendants whose branch rejects the role
}

// Cascade assigns role to code and to every descendant for which the
// role is valid. Descendant codes that accept the role are recorded in
// Cascaded so the operation can be reverted. An invalid assignment on
// the target code itself is rejected and the prior overrides stand.
func Cascade(overrides map[string]domain.Role, code string, role domain.Role, tree *hierarchy.Tree) (*CascadeResult, error) {
	if !role.ValidForCode(code) {
		return nil, &domain.EngineError{
			Kind:    domain.ErrKindInvalidClassification,
			Op:      "cascade",
			Message: fmt.Sprintf("role %s is not valid for account %s", role, code),
		}
	}

	next := make(map[string]domain.Role, len(overrides)+1)
	for k, v := range overrides {
		next[k] = v
	}
	next[code] = role

	result := &CascadeResult{Overrides: next}
	for _, desc := range tree.Descendants(code) {
		if !role.ValidForCode(desc) {
			result.Skipped = append(result.Skipped, desc)
			continue
		}
		next[desc] = role
		result.Cascaded = append(result.Cascaded, desc)
	}
	return result, nil
}

// RevertCascade removes the cascaded descendant assignments recorded
// by a prior Cascade, leaving the parent's own override in place. The
// returned map is a fresh copy.
func RevertCascade(overrides map[string]domain.Role, cascaded []string) map[string]domain.Role {
	next := make(map[string]domain.Role, len(overrides))
	for k, v := range overrides {
		next[k] = v
	}
	for _, code := range cascaded {
		delete(next, code)
	}
	return next
}
