package classify

import (
	"github.com/avillarreal/equilibrio/internal/domain"
)

// LookupTable is the curated professional classification table. An
// entry here bypasses scoring entirely and is applied with confidence
// 1.0. Keys are exact account codes.
type LookupTable map[string]domain.Role

// DefaultLookupTable covers the account codes a reviewing accountant
// has signed off on for the standard chart layout.
func DefaultLookupTable() LookupTable {
	return LookupTable{
		"4.1":     domain.RoleRevenue,
		"4.2":     domain.RoleRevenue,
		"5.1.1":   domain.RoleVariableCost,
		"5.1.2":   domain.RoleVariableCost,
		"5.2.1":   domain.RoleFixedCost,
		"5.2.1.1": domain.RoleFixedCost,
	}
}

// Lookup returns the curated role for a code, if one exists and is
// valid for the code's branch.
func (t LookupTable) Lookup(code string) (domain.Role, bool) {
	role, ok := t[code]
	if !ok || !role.ValidForCode(code) {
		return domain.RoleFixedCost, false
	}
	return role, true
}
