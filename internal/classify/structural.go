package classify

import (
	"fmt"
	"strings"

	"github.com/avillarreal/equilibrio/internal/domain"
)

// StructuralScorer matches account-code prefixes against curated
// prefix lists per role. A deeper prefix match is stronger evidence: a
// 5.1.2 match says more than a bare 5.
type StructuralScorer struct {
	prefixes map[domain.Role][]string
}

// NewStructuralScorer builds the scorer with the default prefix map
// for the 4 (revenue) and 5 (cost) branches.
func NewStructuralScorer() *StructuralScorer {
	return &StructuralScorer{
		prefixes: map[domain.Role][]string{
			domain.RoleRevenue:      {"4"},
			domain.RoleVariableCost: {"5.1", "5.1.1", "5.1.2"},
			domain.RoleFixedCost:    {"5.2", "5.2.1", "5.2.2", "5.3"},
			domain.RoleMixed:        {"5.1.3", "5.2.3"},
		},
	}
}

func (s *StructuralScorer) Name() string { return "structural" }

// Score votes for each role whose longest matching prefix is
// non-empty; the score scales with the number of dot segments matched,
// capped at 0.8.
func (s *StructuralScorer) Score(acct *domain.Account, _ *domain.Dataset) []RoleScore {
	var votes []RoleScore
	for _, role := range domain.AllRoles {
		best := ""
		for _, prefix := range s.prefixes[role] {
			if acct.Code == prefix || strings.HasPrefix(acct.Code, prefix+".") {
				if len(prefix) > len(best) {
					best = prefix
				}
			}
		}
		if best == "" {
			continue
		}
		segments := strings.Count(best, ".") + 1
		score := 0.3 + 0.2*float64(segments-1)
		if score > 0.8 {
			score = 0.8
		}
		votes = append(votes, RoleScore{
			Role:   role,
			Score:  score,
			Reason: fmt.Sprintf("code matches %s prefix %s", role, best),
		})
	}
	return votes
}
