// Package simulate runs what-if scenarios over a computed break-even
// result: one-shot deterministic shocks, or repeated random draws from
// user-chosen distributions aggregated into per-metric statistics.
package simulate

import (
	"github.com/shopspring/decimal"

	"github.com/avillarreal/equilibrio/internal/calculation"
	"github.com/avillarreal/equilibrio/internal/domain"
)

// Shock is one deterministic what-if: a percentage change to price, a
// flat amount added to fixed costs, and a percentage change to the
// variable-cost rate.
type Shock struct {
	PricePct        decimal.Decimal
	FixedCostDelta  decimal.Decimal
	VariableRatePct decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Apply produces the shocked result. The variable-cost side scales
// through the rate (variable cost ÷ revenue), never directly, so rate
// semantics stay stable when price moves too.
func Apply(base *domain.BreakEvenResult, shock Shock) *domain.BreakEvenResult {
	priceFactor := decimal.NewFromInt(1).Add(shock.PricePct.Div(hundred))
	rateFactor := decimal.NewFromInt(1).Add(shock.VariableRatePct.Div(hundred))

	newRevenue := base.Revenue.Mul(priceFactor)

	rate := decimal.Zero
	if base.Revenue.IsPositive() {
		rate = base.VariableCosts.Div(base.Revenue)
	}
	newVariable := rate.Mul(rateFactor).Mul(newRevenue)

	newFixed := base.FixedCosts.Add(shock.FixedCostDelta)
	if newFixed.IsNegative() {
		newFixed = decimal.Zero
	}

	return calculation.Derive(base.Perspective, newRevenue, newVariable, newFixed, base.Depreciation, base.Interest)
}
