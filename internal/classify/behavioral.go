package classify

import (
	"fmt"
	"math"

	"github.com/avillarreal/equilibrio/internal/domain"
	"github.com/avillarreal/equilibrio/internal/stats"
)

// BehavioralScorer infers a role from how the account's historical
// values move against revenue: tight correlation suggests a variable
// cost, a flat series suggests a fixed cost, high dispersion with
// middling correlation suggests a mixed cost. Absolute values are used
// so sign conventions in the source data do not flip correlations.
type BehavioralScorer struct {
	minPeriods int
}

// NewBehavioralScorer requires at least minPeriods of overlapping
// history; below that it abstains.
func NewBehavioralScorer(minPeriods int) *BehavioralScorer {
	if minPeriods < 3 {
		minPeriods = 3
	}
	return &BehavioralScorer{minPeriods: minPeriods}
}

func (s *BehavioralScorer) Name() string { return "behavioral" }

func (s *BehavioralScorer) Score(acct *domain.Account, dataset *domain.Dataset) []RoleScore {
	var values, revenues []float64
	for _, period := range dataset.Periods() {
		rev := dataset.RevenueFor(period)
		if rev.IsZero() {
			continue
		}
		values = append(values, acct.ValueFor(period).Abs().InexactFloat64())
		revenues = append(revenues, rev.InexactFloat64())
	}
	if len(values) < s.minPeriods {
		return nil
	}

	corr := stats.Pearson(values, revenues)
	cv := stats.CoefficientOfVariation(values)

	switch {
	case corr > 0.70:
		return []RoleScore{{
			Role:   domain.RoleVariableCost,
			Score:  math.Min(0.9, corr),
			Reason: fmt.Sprintf("tracks revenue (correlation %.2f)", corr),
		}}
	case corr < 0.20 && cv < 0.10:
		return []RoleScore{{
			Role:   domain.RoleFixedCost,
			Score:  math.Min(0.9, 1-cv),
			Reason: fmt.Sprintf("flat series (correlation %.2f, CV %.2f)", corr, cv),
		}}
	case cv > 0.30:
		return []RoleScore{{
			Role:   domain.RoleMixed,
			Score:  math.Min(0.8, cv),
			Reason: fmt.Sprintf("volatile without tracking revenue (correlation %.2f, CV %.2f)", corr, cv),
		}}
	default:
		return nil
	}
}
