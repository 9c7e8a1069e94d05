// Package calculation aggregates classified leaf accounts into
// three-perspective break-even results. The three perspectives share
// revenue and variable costs and differ only in which non-cash and
// financing items are excluded from fixed costs.
package calculation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avillarreal/equilibrio/internal/domain"
	"github.com/avillarreal/equilibrio/internal/hierarchy"
)

// Depreciation and interest tagging follows the account names of the
// source charts; an account matching either list is tracked separately
// regardless of its role so the perspectives can exclude it.
var depreciationKeywords = []string{
	"depreciacion", "depreciación", "amortizacion", "amortización",
}

var interestKeywords = []string{
	"interes", "interés", "intereses", "financiero", "financiera",
	"gasto bancario", "comision bancaria", "comisión bancaria",
}

// Engine computes break-even aggregates for one period selection.
type Engine struct {
	cache  *ResultCache
	logger *zap.Logger
}

// NewEngine creates an engine. Cache and logger are optional; nil
// disables memoization and logging respectively.
func NewEngine(cache *ResultCache, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{cache: cache, logger: logger}
}

// Input bundles everything a calculation depends on. The engine never
// mutates any of it.
type Input struct {
	Dataset    *domain.Dataset
	Tree       *hierarchy.Tree
	Roles      map[string]domain.Role
	Breakdowns map[string]domain.MixedCostBreakdown
}

// aggregate is the perspective-independent sum over leaf accounts.
type aggregate struct {
	revenue       decimal.Decimal
	variableCosts decimal.Decimal
	fixedCosts    decimal.Decimal
	depreciation  decimal.Decimal
	interest      decimal.Decimal
}

// Calculate returns the three perspective results for one period
// selection, consulting the cache first. Degenerate margins and
// integrity violations are reported as diagnostics on the result,
// never as errors.
func (e *Engine) Calculate(in Input, period domain.PeriodSelection) (*domain.PerspectiveSet, error) {
	if in.Dataset == nil || in.Tree == nil {
		return nil, fmt.Errorf("calculate: dataset and tree are required")
	}
	if e.cache != nil {
		if cached, ok := e.cache.Get(period, in.Roles, in.Breakdowns); ok {
			return cached, nil
		}
	}

	agg := e.aggregateLeaves(in, period)
	set := &domain.PerspectiveSet{
		Period:      period,
		PeriodLabel: period.String(),
		Results:     make(map[domain.Perspective]*domain.BreakEvenResult, len(domain.AllPerspectives)),
	}
	for _, p := range domain.AllPerspectives {
		result := perspectiveResult(p, agg)
		if result.ContributionMarginRatio.LessThanOrEqual(decimal.Zero) && result.FixedCosts.IsPositive() {
			set.Diagnostics = append(set.Diagnostics, domain.Diagnostic{
				Kind:    domain.DiagnosticDegenerateMargin,
				Message: fmt.Sprintf("%s: contribution margin ratio is not positive, no break-even exists", p),
			})
		}
		set.Results[p] = result
	}
	set.Diagnostics = append(set.Diagnostics, checkIntegrity(set)...)

	for _, d := range set.Diagnostics {
		e.logger.Warn("calculation diagnostic",
			zap.String("kind", string(d.Kind)),
			zap.String("period", period.String()),
			zap.String("message", d.Message))
	}
	if e.cache != nil {
		e.cache.Put(period, in.Roles, in.Breakdowns, set)
	}
	return set, nil
}

// aggregateLeaves sums leaf accounts by role for the chosen period.
// Revenue sums signed so discounts and returns stay negative; costs
// sum as absolute values. Mixed accounts with a breakdown contribute
// their fixed and variable components separately; without one, their
// full absolute value lands in fixed costs.
func (e *Engine) aggregateLeaves(in Input, period domain.PeriodSelection) aggregate {
	var agg aggregate
	agg.revenue = decimal.Zero
	agg.variableCosts = decimal.Zero
	agg.fixedCosts = decimal.Zero
	agg.depreciation = decimal.Zero
	agg.interest = decimal.Zero

	activity := activityFor(in.Dataset, period)

	for _, acct := range in.Tree.Leaves() {
		value := valueFor(acct, period)
		role, ok := in.Roles[acct.Code]
		if !ok {
			// Unconfirmed accounts aggregate conservatively.
			if domain.RoleFixedCost.ValidForCode(acct.Code) {
				role = domain.RoleFixedCost
			} else {
				role = domain.RoleRevenue
			}
		}

		switch role {
		case domain.RoleRevenue:
			agg.revenue = agg.revenue.Add(value)
		case domain.RoleVariableCost:
			agg.variableCosts = agg.variableCosts.Add(value.Abs())
		case domain.RoleFixedCost:
			agg.fixedCosts = agg.fixedCosts.Add(value.Abs())
		case domain.RoleMixed:
			if bd, found := in.Breakdowns[acct.Code]; found {
				fixed, variable := prorateBreakdown(bd, acct, activity, period)
				agg.fixedCosts = agg.fixedCosts.Add(fixed)
				agg.variableCosts = agg.variableCosts.Add(variable)
			} else {
				agg.fixedCosts = agg.fixedCosts.Add(value.Abs())
			}
		}

		name := strings.ToLower(acct.Name)
		if matchesAny(name, depreciationKeywords) {
			agg.depreciation = agg.depreciation.Add(value.Abs())
		}
		if matchesAny(name, interestKeywords) {
			agg.interest = agg.interest.Add(value.Abs())
		}
	}
	return agg
}

// valueFor selects the account amount for the period selection. The
// monthly average divides the annual total by periods with data so
// that average × periods == annual holds exactly.
func valueFor(acct *domain.Account, period domain.PeriodSelection) decimal.Decimal {
	switch period.Kind {
	case domain.PeriodAnnual:
		return acct.AnnualValue()
	case domain.PeriodMonthlyAverage:
		return acct.AverageValue()
	default:
		return acct.ValueFor(period.Month)
	}
}

// activityFor is the revenue level the variable rate multiplies
// against for the period selection.
func activityFor(dataset *domain.Dataset, period domain.PeriodSelection) decimal.Decimal {
	switch period.Kind {
	case domain.PeriodAnnual:
		return dataset.AnnualRevenue
	case domain.PeriodMonthlyAverage:
		n := periodsWithRevenue(dataset)
		if n == 0 {
			return decimal.Zero
		}
		return dataset.AnnualRevenue.Div(decimal.NewFromInt(int64(n)))
	default:
		return dataset.RevenueFor(period.Month)
	}
}

func periodsWithRevenue(dataset *domain.Dataset) int {
	n := 0
	for _, v := range dataset.PeriodRevenue {
		if !v.IsZero() {
			n++
		}
	}
	return n
}

// prorateBreakdown converts the annual-equivalent breakdown to the
// period selection's scale: the fixed component divides by the
// account's periods with data except on the annual aggregate, and the
// variable component always follows the period's activity level.
func prorateBreakdown(bd domain.MixedCostBreakdown, acct *domain.Account, activity decimal.Decimal, period domain.PeriodSelection) (fixed, variable decimal.Decimal) {
	fixed = bd.FixedComponent
	if period.Kind != domain.PeriodAnnual {
		if n := acct.PeriodsWithData(); n > 0 {
			fixed = bd.FixedComponent.Div(decimal.NewFromInt(int64(n)))
		}
	}
	variable = bd.VariableRate.Mul(activity)
	return fixed, variable
}

// perspectiveResult applies the perspective's fixed-cost exclusions
// and computes the derived metrics.
func perspectiveResult(p domain.Perspective, agg aggregate) *domain.BreakEvenResult {
	adjusted := agg.fixedCosts
	switch p {
	case domain.PerspectiveOperating:
		adjusted = adjusted.Sub(agg.interest)
	case domain.PerspectiveCash:
		adjusted = adjusted.Sub(agg.interest).Sub(agg.depreciation)
	}
	if adjusted.IsNegative() {
		adjusted = decimal.Zero
	}
	return Derive(p, agg.revenue, agg.variableCosts, adjusted, agg.depreciation, agg.interest)
}

// Derive computes every derived metric from the primitive aggregates.
// The simulator reuses it so shocked results flow through the same
// formulas as the calculator's own.
func Derive(p domain.Perspective, revenue, variableCosts, fixedCosts, depreciation, interest decimal.Decimal) *domain.BreakEvenResult {
	margin := revenue.Sub(variableCosts)
	ratio := decimal.Zero
	if revenue.IsPositive() {
		ratio = margin.Div(revenue)
	}
	breakEven := decimal.Zero
	if ratio.IsPositive() {
		breakEven = fixedCosts.Div(ratio)
	}
	netIncome := revenue.Sub(variableCosts).Sub(fixedCosts)
	ebitda := revenue.Sub(variableCosts).Sub(fixedCosts.Sub(depreciation))
	ebit := ebitda.Sub(depreciation)

	return &domain.BreakEvenResult{
		Perspective:             p,
		Revenue:                 revenue,
		VariableCosts:           variableCosts,
		FixedCosts:              fixedCosts,
		ContributionMargin:      margin,
		ContributionMarginRatio: ratio,
		BreakEvenRevenue:        breakEven,
		NetIncome:               netIncome,
		EBIT:                    ebit,
		EBITDA:                  ebitda,
		Depreciation:            depreciation,
		Interest:                interest,
	}
}

// checkIntegrity verifies the cross-perspective invariants: identical
// margin ratios everywhere, and fixed costs and break-even decreasing
// monotonically from accounting to cash. Violations are reported while
// the results stand.
func checkIntegrity(set *domain.PerspectiveSet) []domain.Diagnostic {
	var diags []domain.Diagnostic
	tolerance := decimal.NewFromFloat(1e-9)

	acc := set.Results[domain.PerspectiveAccounting]
	op := set.Results[domain.PerspectiveOperating]
	cash := set.Results[domain.PerspectiveCash]
	if acc == nil || op == nil || cash == nil {
		return diags
	}

	if acc.ContributionMarginRatio.Sub(op.ContributionMarginRatio).Abs().GreaterThan(tolerance) ||
		acc.ContributionMarginRatio.Sub(cash.ContributionMarginRatio).Abs().GreaterThan(tolerance) {
		diags = append(diags, domain.Diagnostic{
			Kind:    domain.DiagnosticIntegrityViolation,
			Message: "contribution margin ratio differs between perspectives",
		})
	}
	if acc.FixedCosts.LessThan(op.FixedCosts) || op.FixedCosts.LessThan(cash.FixedCosts) {
		diags = append(diags, domain.Diagnostic{
			Kind:    domain.DiagnosticIntegrityViolation,
			Message: "fixed cost ordering violated: accounting >= operating >= cash expected",
		})
	}
	if acc.ContributionMarginRatio.IsPositive() &&
		(acc.BreakEvenRevenue.LessThan(op.BreakEvenRevenue) || op.BreakEvenRevenue.LessThan(cash.BreakEvenRevenue)) {
		diags = append(diags, domain.Diagnostic{
			Kind:    domain.DiagnosticIntegrityViolation,
			Message: "break-even ordering violated: accounting >= operating >= cash expected",
		})
	}
	return diags
}

func matchesAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}
