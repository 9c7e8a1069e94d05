// Package classify assigns each leaf account a cost/revenue role by
// combining independent evidence sources: a curated professional
// lookup, name semantics, historical behavior against revenue, and
// account-code structure.
package classify

import (
	"github.com/avillarreal/equilibrio/internal/domain"
)

// RoleScore is one scorer's vote for one role, with the evidence that
// produced it.
type RoleScore struct {
	Role   domain.Role
	Score  float64
	Reason string
}

// Scorer is a single evidence source. Scorers return no votes when
// they have nothing to say about an account; they never fail.
type Scorer interface {
	Name() string
	Score(acct *domain.Account, dataset *domain.Dataset) []RoleScore
}
