package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of account classifications used by the
// break-even aggregator. Free-form tags are never passed around; the
// aggregator switches exhaustively on this type.
type Role int

const (
	RoleFixedCost Role = iota
	RoleVariableCost
	RoleRevenue
	RoleMixed
)

// AllRoles lists every role in a stable order, for iteration during
// scoring and for exhaustiveness in tests.
var AllRoles = []Role{RoleFixedCost, RoleVariableCost, RoleRevenue, RoleMixed}

func (r Role) String() string {
	switch r {
	case RoleFixedCost:
		return "fixed_cost"
	case RoleVariableCost:
		return "variable_cost"
	case RoleRevenue:
		return "revenue"
	case RoleMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// ParseRole converts a persisted role tag back into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "fixed_cost":
		return RoleFixedCost, nil
	case "variable_cost":
		return RoleVariableCost, nil
	case "revenue":
		return RoleRevenue, nil
	case "mixed":
		return RoleMixed, nil
	default:
		return RoleFixedCost, fmt.Errorf("unknown role tag %q", s)
	}
}

// ValidForCode reports whether a role assignment is allowed for an
// account code. Accounts under the 4 branch are revenue only; accounts
// under the 5 branch are cost only. Codes outside both branches carry
// no restriction.
func (r Role) ValidForCode(code string) bool {
	switch {
	case code == "4" || strings.HasPrefix(code, "4."):
		return r == RoleRevenue
	case code == "5" || strings.HasPrefix(code, "5."):
		return r != RoleRevenue
	default:
		return true
	}
}

// ValidRolesForCode returns the subset of AllRoles permitted for a code.
func ValidRolesForCode(code string) []Role {
	valid := make([]Role, 0, len(AllRoles))
	for _, r := range AllRoles {
		if r.ValidForCode(code) {
			valid = append(valid, r)
		}
	}
	return valid
}
