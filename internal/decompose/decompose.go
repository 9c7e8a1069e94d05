// Package decompose splits semi-variable accounts into a fixed
// component and a variable rate against an activity measure. Three
// estimators compete on goodness of fit; a structural fallback keyed
// on the account-code branch covers the cases statistics cannot.
package decompose

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/avillarreal/equilibrio/internal/domain"
	"github.com/avillarreal/equilibrio/internal/stats"
)

// Config carries the decomposer's tuning knobs. The confidence cutoffs
// were tuned against one observed dataset and should not be assumed to
// generalize; callers may adjust them.
type Config struct {
	MinPoints          int
	MinRegressionR2    float64
	HighConfidenceR2   float64
	MediumConfidenceR2 float64
}

// DefaultConfig returns the tuning used by the interactive dashboard.
func DefaultConfig() Config {
	return Config{
		MinPoints:          3,
		MinRegressionR2:    0.5,
		HighConfidenceR2:   0.75,
		MediumConfidenceR2: 0.45,
	}
}

// Decomposer estimates mixed-cost breakdowns.
type Decomposer struct {
	config Config
}

// NewDecomposer creates a decomposer with the given config.
func NewDecomposer(config Config) *Decomposer {
	if config.MinPoints < 2 {
		config.MinPoints = DefaultConfig().MinPoints
	}
	return &Decomposer{config: config}
}

// observation pairs one period's activity level (revenue) with the
// account's absolute cost for that period.
type observation struct {
	activity float64
	cost     float64
}

// Decompose estimates the fixed/variable split for one account against
// the dataset's period revenue. It never fails: with too little usable
// data it returns the structural fallback.
func (d *Decomposer) Decompose(acct *domain.Account, dataset *domain.Dataset) domain.MixedCostBreakdown {
	obs := collectObservations(acct, dataset)
	if len(obs) < d.config.MinPoints {
		return d.structuralFallback(acct, obs)
	}

	candidates := []domain.MixedCostBreakdown{}
	if bd, ok := d.regression(acct, obs); ok {
		candidates = append(candidates, bd)
	}
	if bd, ok := d.highLow(acct, obs); ok {
		candidates = append(candidates, bd)
	}
	if bd, ok := d.correlation(acct, obs); ok {
		candidates = append(candidates, bd)
	}
	if len(candidates) == 0 {
		return d.structuralFallback(acct, obs)
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.GoodnessOfFit.GreaterThan(best.GoodnessOfFit) {
			best = c
		}
	}
	if best.GoodnessOfFit.LessThan(decimal.NewFromFloat(d.config.MediumConfidenceR2)) && best.Method != domain.MethodCorrelation {
		// A poor statistical fit is worse than the structural prior.
		fallback := d.structuralFallback(acct, obs)
		if fallback.GoodnessOfFit.GreaterThanOrEqual(best.GoodnessOfFit) {
			best = fallback
		}
	}

	best.Confidence = d.confidence(best.GoodnessOfFit, len(obs))
	best.RecommendedRole = recommendRole(best, totalCost(obs))
	return best
}

func collectObservations(acct *domain.Account, dataset *domain.Dataset) []observation {
	obs := make([]observation, 0, len(acct.MonthlyValues))
	for _, period := range dataset.Periods() {
		activity := dataset.RevenueFor(period)
		if !activity.IsPositive() {
			continue
		}
		cost := acct.ValueFor(period).Abs()
		obs = append(obs, observation{
			activity: activity.InexactFloat64(),
			cost:     cost.InexactFloat64(),
		})
	}
	return obs
}

func totalCost(obs []observation) float64 {
	total := 0.0
	for _, o := range obs {
		total += o.cost
	}
	return total
}

func split(obs []observation) (xs, ys []float64) {
	xs = make([]float64, len(obs))
	ys = make([]float64, len(obs))
	for i, o := range obs {
		xs[i] = o.activity
		ys[i] = o.cost
	}
	return xs, ys
}

// regression fits cost on activity with OLS. The fit is rejected when
// R² is below the floor, the slope leaves the plausible rate range,
// the intercept goes negative, or the implied fixed total exceeds 120%
// of the observed cost.
func (d *Decomposer) regression(acct *domain.Account, obs []observation) (domain.MixedCostBreakdown, bool) {
	xs, ys := split(obs)
	fit, ok := stats.FitLinear(xs, ys)
	if !ok || fit.R2 < d.config.MinRegressionR2 {
		return domain.MixedCostBreakdown{}, false
	}
	if fit.Slope < 0.0001 || fit.Slope > 1 {
		return domain.MixedCostBreakdown{}, false
	}
	if fit.Intercept < 0 {
		return domain.MixedCostBreakdown{}, false
	}
	fixedTotal := fit.Intercept * float64(len(obs))
	if fixedTotal > 1.2*totalCost(obs) {
		return domain.MixedCostBreakdown{}, false
	}
	// FixedComponent is stored as the annual-equivalent total
	// (intercept × period count); the calculator pro-rates it back
	// per period when needed.
	return domain.MixedCostBreakdown{
		AccountCode:    acct.Code,
		FixedComponent: decimal.NewFromFloat(fixedTotal),
		VariableRate:   decimal.NewFromFloat(fit.Slope),
		Method:         domain.MethodRegression,
		GoodnessOfFit:  decimal.NewFromFloat(fit.R2),
	}, true
}

// highLow uses only the lowest- and highest-activity periods.
func (d *Decomposer) highLow(acct *domain.Account, obs []observation) (domain.MixedCostBreakdown, bool) {
	low, high := obs[0], obs[0]
	for _, o := range obs[1:] {
		if o.activity < low.activity {
			low = o
		}
		if o.activity > high.activity {
			high = o
		}
	}
	if high.activity == low.activity {
		return domain.MixedCostBreakdown{}, false
	}
	rate := (high.cost - low.cost) / (high.activity - low.activity)
	fixed := low.cost - rate*low.activity
	if rate < 0 || fixed < 0 {
		return domain.MixedCostBreakdown{}, false
	}
	return domain.MixedCostBreakdown{
		AccountCode:    acct.Code,
		FixedComponent: decimal.NewFromFloat(fixed * float64(len(obs))),
		VariableRate:   decimal.NewFromFloat(rate),
		Method:         domain.MethodHighLow,
		GoodnessOfFit:  decimal.NewFromFloat(d.evaluateFit(obs, fixed, rate)),
	}, true
}

// correlation blends fixed and variable proportionally to |r|. Weak
// correlation means fully fixed; strong correlation defers to the
// regression estimate, which will win on R².
func (d *Decomposer) correlation(acct *domain.Account, obs []observation) (domain.MixedCostBreakdown, bool) {
	xs, ys := split(obs)
	r := math.Abs(stats.Pearson(xs, ys))
	if r > 0.7 {
		// Regression handles the strongly correlated case.
		return domain.MixedCostBreakdown{}, false
	}

	avgCost := stats.Mean(ys)
	avgActivity := stats.Mean(xs)
	var fixed, rate float64
	if r < 0.3 {
		fixed = avgCost
		rate = 0
	} else {
		fixed = avgCost * (1 - r)
		if avgActivity > 0 {
			rate = avgCost * r / avgActivity
		}
	}
	return domain.MixedCostBreakdown{
		AccountCode:    acct.Code,
		FixedComponent: decimal.NewFromFloat(fixed * float64(len(obs))),
		VariableRate:   decimal.NewFromFloat(rate),
		Method:         domain.MethodCorrelation,
		GoodnessOfFit:  decimal.NewFromFloat(d.evaluateFit(obs, fixed, rate)),
	}, true
}

// evaluateFit scores an arbitrary fixed/rate pair as an R²-style
// fraction of explained variance, so the three methods compete on a
// common scale.
func (d *Decomposer) evaluateFit(obs []observation, fixed, rate float64) float64 {
	_, ys := split(obs)
	meanY := stats.Mean(ys)
	var ssRes, ssTot float64
	for _, o := range obs {
		pred := fixed + rate*o.activity
		ssRes += (o.cost - pred) * (o.cost - pred)
		ssTot += (o.cost - meanY) * (o.cost - meanY)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	r2 := 1 - ssRes/ssTot
	if r2 < 0 {
		return 0
	}
	return r2
}

// structuralFallback assigns the branch-default split when statistics
// are inapplicable: the 5.1 branch is predominantly variable, the 5.2
// branch predominantly fixed, everything else 60/40 fixed.
func (d *Decomposer) structuralFallback(acct *domain.Account, obs []observation) domain.MixedCostBreakdown {
	annual := acct.AnnualValue().Abs()

	var fixedShare float64
	switch {
	case strings.HasPrefix(acct.Code, "5.1"):
		fixedShare = 0.10
	case strings.HasPrefix(acct.Code, "5.2"):
		fixedShare = 0.90
	default:
		fixedShare = 0.60
	}

	fixed := annual.Mul(decimal.NewFromFloat(fixedShare))
	variable := annual.Sub(fixed)
	rate := decimal.Zero
	if len(obs) > 0 {
		xs, _ := split(obs)
		if totalActivity := stats.Mean(xs) * float64(len(obs)); totalActivity > 0 {
			rate = variable.Div(decimal.NewFromFloat(totalActivity))
		}
	}

	bd := domain.MixedCostBreakdown{
		AccountCode:    acct.Code,
		FixedComponent: fixed,
		VariableRate:   rate,
		Confidence:     domain.ConfidenceLow,
		Method:         domain.MethodFallback,
		GoodnessOfFit:  decimal.Zero,
	}
	bd.RecommendedRole = recommendRoleFromShares(fixedShare, 1-fixedShare)
	return bd
}

// confidence maps R² plus a small bonus per extra data point beyond
// the minimum onto the three-level scale.
func (d *Decomposer) confidence(r2 decimal.Decimal, points int) domain.ConfidenceLevel {
	bonus := 0.02 * float64(points-d.config.MinPoints)
	if bonus > 0.1 {
		bonus = 0.1
	}
	if bonus < 0 {
		bonus = 0
	}
	score := r2.InexactFloat64() + bonus
	switch {
	case score >= d.config.HighConfidenceR2:
		return domain.ConfidenceHigh
	case score >= d.config.MediumConfidenceR2:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// recommendRole flips to a pure role when one component exceeds 80%
// of the observed total cost.
func recommendRole(bd domain.MixedCostBreakdown, observedTotal float64) domain.Role {
	if observedTotal <= 0 {
		return domain.RoleMixed
	}
	fixedShare := bd.FixedComponent.InexactFloat64() / observedTotal
	if fixedShare > 1 {
		fixedShare = 1
	}
	if fixedShare < 0 {
		fixedShare = 0
	}
	return recommendRoleFromShares(fixedShare, 1-fixedShare)
}

func recommendRoleFromShares(fixedShare, variableShare float64) domain.Role {
	switch {
	case fixedShare > 0.8:
		return domain.RoleFixedCost
	case variableShare > 0.8:
		return domain.RoleVariableCost
	default:
		return domain.RoleMixed
	}
}
